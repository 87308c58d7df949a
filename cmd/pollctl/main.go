package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	apihttp "github.com/rocketvote/pollsync/internal/adapters/api/http"
	"github.com/rocketvote/pollsync/internal/adapters/push/websocket"
	"github.com/rocketvote/pollsync/internal/adapters/storage/file"
	"github.com/rocketvote/pollsync/internal/config"
	"github.com/rocketvote/pollsync/internal/core/domain"
	"github.com/rocketvote/pollsync/internal/core/ports"
	"github.com/rocketvote/pollsync/internal/core/services"
)

const usage = `Usage: pollctl <command> [flags]

Commands:
  create           create a poll from a question spec or template
  vote             toggle options and submit a ballot
  watch            follow a poll until results are revealed
  reveal           reveal results (organizer only)
  admin            show the organizer view of a poll
  templates        list saved templates
  template-save    save a question spec as a reusable template
  template-delete  delete a template by title
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "create":
		err = runCreate(ctx, cfg, os.Args[2:])
	case "vote":
		err = runVote(ctx, cfg, os.Args[2:])
	case "watch":
		err = runWatch(ctx, cfg, os.Args[2:])
	case "reveal":
		err = runReveal(ctx, cfg, os.Args[2:])
	case "admin":
		err = runAdmin(ctx, cfg, os.Args[2:])
	case "templates":
		err = runTemplates(ctx, cfg)
	case "template-save":
		err = runTemplateSave(ctx, cfg, os.Args[2:])
	case "template-delete":
		err = runTemplateDelete(ctx, cfg, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newClient(cfg config.Config) *apihttp.Client {
	return apihttp.NewClient(cfg.APIBaseURL, stdhttp.DefaultClient)
}

// parseQuestions turns "desc|optA,optB[|multi]" segments joined by ";"
// into the create payload, e.g.
// "Lunch?|Pizza,Sushi;Toppings?|Cheese,Olives|multi".
func parseQuestions(spec string) ([]domain.Question, error) {
	if spec == "" {
		return nil, fmt.Errorf("at least one question is required")
	}
	var questions []domain.Question
	for _, segment := range strings.Split(spec, ";") {
		parts := strings.Split(segment, "|")
		if len(parts) < 2 {
			return nil, fmt.Errorf("question %q: want description|option,option", segment)
		}
		q := domain.Question{
			Description: strings.TrimSpace(parts[0]),
			Options:     strings.Split(parts[1], ","),
		}
		for i, opt := range q.Options {
			q.Options[i] = strings.TrimSpace(opt)
		}
		if len(parts) > 2 && parts[2] == "multi" {
			q.MultiSelect = true
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func runCreate(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	spec := fs.String("questions", "", "question spec: desc|optA,optB[|multi];...")
	template := fs.String("template", "", "prefill from a saved template")
	anonymous := fs.Bool("anonymous", false, "do not attribute votes to names")
	fs.Parse(args)

	client := newClient(cfg)

	var input ports.CreatePollInput
	if *template != "" {
		prefill, err := services.NewTemplateService(client).Prefill(ctx, *template)
		if err != nil {
			return err
		}
		input = *prefill
	} else {
		questions, err := parseQuestions(*spec)
		if err != nil {
			return err
		}
		input = ports.CreatePollInput{Questions: questions, Anonymous: *anonymous}
	}

	created, err := services.NewPollService(client).Create(ctx, input)
	if err != nil {
		return err
	}

	reveal := services.NewRevealService(client, created.CreationID, cfg.AppBaseURL)
	fmt.Printf("poll:        %s\n", created.PollID)
	fmt.Printf("creation id: %s (keep this private)\n", created.CreationID)
	fmt.Printf("share:       %s\n", reveal.ShareURL(created.PollID))
	return nil
}

func runVote(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("vote", flag.ExitOnError)
	pollID := fs.String("poll", "", "poll id")
	picks := fs.String("pick", "", "picks per question: optB;optX,optY")
	name := fs.String("name", "", "display name for attributed polls")
	fs.Parse(args)
	if *pollID == "" || *picks == "" {
		return fmt.Errorf("-poll and -pick are required")
	}

	identity, err := file.Open(cfg.IdentityPath)
	if err != nil {
		return fmt.Errorf("open identity store: %w", err)
	}
	voter := services.NewVoterService(identity)
	if *name != "" {
		if err := voter.SetDisplayName(*name); err != nil {
			return err
		}
	}

	client := newClient(cfg)
	store := services.NewSnapshotStore(client, *pollID)
	if err := store.Refresh(ctx); err != nil {
		return fmt.Errorf("fetch poll: %w", err)
	}

	submission := services.NewSubmissionService(client, store, voter, *pollID)
	for i, segment := range strings.Split(*picks, ";") {
		if segment == "" {
			continue
		}
		for _, opt := range strings.Split(segment, ",") {
			if err := submission.Toggle(i, strings.TrimSpace(opt)); err != nil {
				return fmt.Errorf("question %d: %w", i+1, err)
			}
		}
	}

	if !submission.CanSubmit() {
		return domain.ErrIncompleteSelection
	}
	if err := submission.Submit(ctx); err != nil {
		return err
	}
	fmt.Println("ballot recorded")
	return nil
}

func runWatch(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	pollID := fs.String("poll", "", "poll id")
	fs.Parse(args)
	if *pollID == "" {
		return fmt.Errorf("-poll is required")
	}

	client := newClient(cfg)
	store := services.NewSnapshotStore(client, *pollID)
	session := services.NewPollSession(store, websocket.NewChannel(cfg.PushBaseURL), *pollID, cfg.PollInterval)
	if err := session.Start(ctx); err != nil {
		return err
	}
	defer session.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-session.Updates():
			if !ok {
				return nil
			}
			if update.Err != nil {
				log.Printf("refresh failed, keeping last snapshot: %v", update.Err)
				continue
			}
			snap, ok := store.Current()
			if !ok {
				continue
			}
			printSnapshot(snap)
			if update.Revealed {
				fmt.Println("results revealed")
				return nil
			}
		}
	}
}

func printSnapshot(snap *domain.Snapshot) {
	for i, q := range snap.Poll.Questions {
		fmt.Printf("%s (%d votes)\n", q.Description, snap.TotalVotes(i))
		for _, stat := range snap.Ranking(i) {
			line := fmt.Sprintf("  %-20s %3d  %5.1f%%", stat.Option, stat.Count, stat.Percentage*100)
			if voters := snap.VotersFor(i, stat.Option); len(voters) > 0 {
				line += "  " + strings.Join(voters, ", ")
			}
			fmt.Println(line)
		}
	}
}

func runReveal(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("reveal", flag.ExitOnError)
	creationID := fs.String("creation", "", "creation id")
	fs.Parse(args)
	if *creationID == "" {
		return fmt.Errorf("-creation is required")
	}

	if err := services.NewRevealService(newClient(cfg), *creationID, cfg.AppBaseURL).Reveal(ctx); err != nil {
		return err
	}
	fmt.Println("results revealed")
	return nil
}

func runAdmin(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	creationID := fs.String("creation", "", "creation id")
	fs.Parse(args)
	if *creationID == "" {
		return fmt.Errorf("-creation is required")
	}

	view, err := services.NewRevealService(newClient(cfg), *creationID, cfg.AppBaseURL).AdminView(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("poll: %s (revealed: %v)\n", view.PollID, view.Snapshot.Poll.Revealed)
	printSnapshot(view.Snapshot)
	return nil
}

func runTemplates(ctx context.Context, cfg config.Config) error {
	templates, err := services.NewTemplateService(newClient(cfg)).List(ctx)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		fmt.Println("no templates saved")
		return nil
	}
	for _, tmpl := range templates {
		fmt.Printf("%s (%d questions, anonymous: %v)\n", tmpl.Title, len(tmpl.Questions), tmpl.Anonymous)
	}
	return nil
}

func runTemplateSave(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("template-save", flag.ExitOnError)
	title := fs.String("title", "", "template title")
	spec := fs.String("questions", "", "question spec: desc|optA,optB[|multi];...")
	anonymous := fs.Bool("anonymous", false, "do not attribute votes to names")
	fs.Parse(args)
	if *title == "" {
		return fmt.Errorf("-title is required")
	}

	questions, err := parseQuestions(*spec)
	if err != nil {
		return err
	}
	err = services.NewTemplateService(newClient(cfg)).Save(ctx, domain.Template{
		Title:     *title,
		Anonymous: *anonymous,
		Questions: questions,
	})
	if err != nil {
		return err
	}
	fmt.Println("template saved")
	return nil
}

func runTemplateDelete(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("template-delete", flag.ExitOnError)
	title := fs.String("title", "", "template title")
	fs.Parse(args)
	if *title == "" {
		return fmt.Errorf("-title is required")
	}

	if err := services.NewTemplateService(newClient(cfg)).Delete(ctx, *title); err != nil {
		return err
	}
	fmt.Println("template deleted")
	return nil
}
