package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/ramonehamilton/lorcana-companion/internal/collection"
	"github.com/ramonehamilton/lorcana-companion/internal/config"
	"github.com/ramonehamilton/lorcana-companion/internal/events"
	"github.com/ramonehamilton/lorcana-companion/internal/lorcana"
	"github.com/ramonehamilton/lorcana-companion/internal/session"
	"github.com/ramonehamilton/lorcana-companion/internal/stats"
)

var (
	// Application mode flags
	debugMode      = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	debugModeShort = flag.Bool("d", false, "Enable debug logging (shorthand for -debug-mode)")

	// API configuration flags (override config file values)
	baseURL     = flag.String("base-url", "", "Catalog service base URL (overrides config)")
	wireVersion = flag.Int("wire-version", 0, "Wishlist endpoint generation, 1 or 2 (overrides config)")

	// Collection scope
	setID = flag.Int("set", 0, "Restrict the collection to one set ID (0 = all sets)")
)

// app bundles the wired components for the interactive loop.
type app struct {
	config     *config.Config
	session    *session.Session
	client     *lorcana.Client
	reconciler *collection.Reconciler
	logger     *slog.Logger
	logLevel   *slog.LevelVar
}

func main() {
	flag.Parse()
	if *debugModeShort {
		*debugMode = true
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *wireVersion != 0 {
		cfg.API.WireVersion = *wireVersion
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logLevel := &slog.LevelVar{}
	if *debugMode || cfg.App.DebugMode {
		logLevel.Set(slog.LevelDebug)
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	a, err := newApp(cfg, logger, logLevel)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick up config edits while the loop is running.
	if path, err := config.Path(); err == nil {
		go func() {
			err := config.Watch(ctx, path, logger, a.applyConfig)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
		os.Exit(0)
	}()

	a.run(ctx)
}

func newApp(cfg *config.Config, logger *slog.Logger, logLevel *slog.LevelVar) (*app, error) {
	clientCfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewDispatcher(logger)

	// The client reads the token through the session; the session performs
	// auth calls through the client. Break the cycle with a TokenFunc so
	// both can be constructed exactly once.
	var sess *session.Session
	client := lorcana.NewClient(clientCfg, lorcana.TokenFunc(func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	}))
	sess = session.New(client, dispatcher, logger)

	retryDelay, err := cfg.GetRetryDelay()
	if err != nil {
		return nil, err
	}
	reconciler := collection.NewReconciler(client, dispatcher, logger, &collection.Config{
		SetID:            *setID,
		ReloadRetries:    cfg.Reload.Retries,
		ReloadRetryDelay: retryDelay,
	})

	dispatcher.Register(&events.ObserverFunc{
		ObserverName: "cli",
		Types:        []string{events.TypeSessionExpired},
		Fn: func(events.Event) error {
			fmt.Println("Session expired. Please log in again.")
			return nil
		},
	})

	return &app{
		config:     cfg,
		session:    sess,
		client:     client,
		reconciler: reconciler,
		logger:     logger,
		logLevel:   logLevel,
	}, nil
}

// applyConfig picks up the hot-reloadable settings.
func (a *app) applyConfig(cfg *config.Config) {
	a.config = cfg
	if cfg.App.DebugMode {
		a.logLevel.Set(slog.LevelDebug)
	} else {
		a.logLevel.Set(slog.LevelInfo)
	}
}

// run is the interactive command loop.
func (a *app) run(ctx context.Context) {
	fmt.Println("Lorcana Companion")
	fmt.Println("=================")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			printHelp()
		case "login":
			a.cmdLogin(ctx, args)
		case "register":
			a.cmdRegister(ctx, args)
		case "logout":
			a.cmdLogout(ctx)
		case "me":
			a.cmdMe()
		case "sets":
			a.cmdSets(ctx)
		case "cards":
			a.cmdCards(ctx, args)
		case "reload":
			a.cmdReload(ctx)
		case "collection":
			a.cmdCollection()
		case "wishlist":
			a.cmdWishlist()
		case "wish":
			a.cmdWish(ctx, args)
		case "own":
			a.cmdOwn(ctx, args)
		case "search":
			a.cmdSearch(args)
		case "stats":
			a.cmdStats(ctx)
		case "quit", "exit":
			return
		default:
			fmt.Printf("Unknown command %q. Type 'help' for available commands.\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  login <email> <password>              - Log in to the catalog service")
	fmt.Println("  register <name> <email> <password>    - Create an account")
	fmt.Println("  logout                                - Log out (local state always cleared)")
	fmt.Println("  me                                    - Show the logged-in user")
	fmt.Println("  sets                                  - List card sets")
	fmt.Println("  cards <setID>                         - List the cards of a set")
	fmt.Println("  reload                                - Reload catalog, collection and wishlist")
	fmt.Println("  collection                            - Show owned cards")
	fmt.Println("  wishlist                              - Show wishlisted cards")
	fmt.Println("  wish <cardID>                         - Toggle a card's wishlist membership")
	fmt.Println("  own <cardID> <normal|foil> <+|->      - Adjust an owned quantity")
	fmt.Println("  search <terms...>                     - Search loaded cards")
	fmt.Println("  stats                                 - Show collection statistics")
	fmt.Println("  quit                                  - Exit")
}

// opCtx bounds a single user-triggered operation. Reload fan-out plus its
// bounded retries can legitimately take a while; everything else finishes
// well inside this.
func (a *app) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 2*time.Minute)
}

func (a *app) requireAuth() bool {
	if a.session.IsAuthenticated() {
		return true
	}
	fmt.Println("Not logged in. Use: login <email> <password>")
	return false
}

func (a *app) cmdLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: login <email> <password>")
		return
	}
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	result := a.session.Login(opCtx, args[0], args[1])
	if !result.OK {
		fmt.Printf("Login failed: %s\n", userMessage(result.Err))
		return
	}
	fmt.Printf("Logged in as %s <%s>\n", result.User.Name, result.User.Email)
}

func (a *app) cmdRegister(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: register <name> <email> <password>")
		return
	}
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	user, err := a.session.Register(opCtx, args[0], args[1], args[2], args[2])
	if err != nil {
		fmt.Printf("Registration failed: %s\n", userMessage(err))
		return
	}
	fmt.Printf("Account created for %s. Use 'login' to sign in.\n", user.Email)
}

func (a *app) cmdLogout(ctx context.Context) {
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	a.session.Logout(opCtx)
	fmt.Println("Logged out.")
}

func (a *app) cmdMe() {
	user := a.session.User()
	if user == nil {
		fmt.Println("Not logged in.")
		return
	}
	fmt.Printf("%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
}

func (a *app) cmdSets(ctx context.Context) {
	if !a.requireAuth() {
		return
	}
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	sets, err := a.client.ListSets(opCtx)
	if err != nil {
		a.reportError(err)
		return
	}
	displaySets(sets)
}

func (a *app) cmdCards(ctx context.Context, args []string) {
	if !a.requireAuth() {
		return
	}
	if len(args) != 1 {
		fmt.Println("Usage: cards <setID>")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("Invalid set ID %q\n", args[0])
		return
	}
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	cards, err := a.client.ListSetCards(opCtx, id)
	if err != nil {
		a.reportError(err)
		return
	}
	// Show set cards joined with whatever collection state is loaded.
	displayCards(joinLoaded(a.reconciler, cards))
}

func (a *app) cmdReload(ctx context.Context) {
	if !a.requireAuth() {
		return
	}
	fmt.Println("Reloading collection...")
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	views, err := a.reconciler.Reload(opCtx)
	if err != nil {
		a.reportError(err)
		return
	}
	fmt.Printf("Loaded %d cards.\n", len(views))
}

func (a *app) cmdCollection() {
	if !a.requireAuth() {
		return
	}
	views := a.loadedViews()
	if views == nil {
		return
	}
	displayCollection(collection.FilterOwned(views))
}

func (a *app) cmdWishlist() {
	if !a.requireAuth() {
		return
	}
	views := a.loadedViews()
	if views == nil {
		return
	}
	displayWishlist(collection.FilterWishlisted(views))
}

func (a *app) cmdWish(ctx context.Context, args []string) {
	if !a.requireAuth() {
		return
	}
	if len(args) != 1 {
		fmt.Println("Usage: wish <cardID>")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("Invalid card ID %q\n", args[0])
		return
	}
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	inWishlist, err := a.reconciler.ToggleWishlist(opCtx, id)
	if err != nil {
		a.reportError(err)
		return
	}
	if inWishlist {
		fmt.Printf("Card %d added to wishlist.\n", id)
	} else {
		fmt.Printf("Card %d removed from wishlist.\n", id)
	}
}

func (a *app) cmdOwn(ctx context.Context, args []string) {
	if !a.requireAuth() {
		return
	}
	if len(args) != 3 {
		fmt.Println("Usage: own <cardID> <normal|foil> <+|->")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("Invalid card ID %q\n", args[0])
		return
	}
	var variant collection.Variant
	switch args[1] {
	case "normal":
		variant = collection.Normal
	case "foil":
		variant = collection.Foil
	default:
		fmt.Printf("Invalid variant %q: use normal or foil\n", args[1])
		return
	}
	var delta int
	switch args[2] {
	case "+":
		delta = +1
	case "-":
		delta = -1
	default:
		fmt.Printf("Invalid direction %q: use + or -\n", args[2])
		return
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	normal, foil, err := a.reconciler.ChangeQuantity(opCtx, id, variant, delta)
	if err != nil {
		a.reportError(err)
		return
	}
	fmt.Printf("Card %d: %d normal, %d foil\n", id, normal, foil)
}

func (a *app) cmdSearch(args []string) {
	if !a.requireAuth() {
		return
	}
	views := a.loadedViews()
	if views == nil {
		return
	}
	displayCards(collection.Search(views, strings.Join(args, " ")))
}

func (a *app) cmdStats(ctx context.Context) {
	if !a.requireAuth() {
		return
	}
	views := a.loadedViews()
	if views == nil {
		return
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	setNames := map[int]string{}
	if sets, err := a.client.ListSets(opCtx); err == nil {
		for _, s := range sets {
			setNames[s.ID] = s.Name
		}
	}
	displayStats(stats.Compute(views), stats.SetCompletion(views, setNames))
}

// loadedViews returns the current snapshot, prompting for a reload when
// nothing has been loaded yet.
func (a *app) loadedViews() []collection.CardView {
	views := a.reconciler.Snapshot()
	if len(views) == 0 {
		fmt.Println("No cards loaded yet. Run 'reload' first.")
		return nil
	}
	return views
}

// reportError prints a user-facing message for a failed operation and
// routes authorization failures into the session.
func (a *app) reportError(err error) {
	if a.session.HandleError(err) {
		return // session expiry observer already told the user
	}
	fmt.Printf("Error: %s\n", userMessage(err))
}

// userMessage maps the error taxonomy onto the most helpful text we can
// show; RequestError messages are shown verbatim.
func userMessage(err error) string {
	var reqErr *lorcana.RequestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.Message
	case errors.Is(err, lorcana.ErrServiceUnavailable):
		return "The service is temporarily unavailable. Please try again later."
	case errors.Is(err, lorcana.ErrNetworkUnreachable):
		return "Could not reach the server. Check your internet connection."
	case errors.Is(err, lorcana.ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, collection.ErrOperationPending):
		return "That card already has a change in flight. Try again in a moment."
	case errors.Is(err, collection.ErrUnknownCard):
		return "Unknown card. Run 'reload' to refresh the catalog."
	default:
		return err.Error()
	}
}

// joinLoaded builds display view-models for a card list using whatever
// collection state the reconciler currently holds.
func joinLoaded(r *collection.Reconciler, cards []lorcana.Card) []collection.CardView {
	views := make([]collection.CardView, 0, len(cards))
	for _, card := range cards {
		if v, ok := r.Get(card.ID); ok {
			views = append(views, v)
			continue
		}
		views = append(views, collection.CardView{Card: card})
	}
	return views
}
