package cli

import (
	"bufio"
	"context"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/dmitrijs2005/snapline/internal/client/api"
	"github.com/dmitrijs2005/snapline/internal/client/chat"
	"github.com/dmitrijs2005/snapline/internal/client/config"
	"github.com/dmitrijs2005/snapline/internal/client/livesync"
	"github.com/dmitrijs2005/snapline/internal/client/services"
	"github.com/dmitrijs2005/snapline/internal/client/session"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	apiClient   api.Client
	repo        *chat.Repository
	pager       *chat.Pager
	bus         *session.Bus
	nc          *nats.Conn
	reader      *bufio.Reader

	mu     sync.Mutex
	userID string
	chatID string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	db, err := session.OpenDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	tokens := session.NewSQLiteStore(db)
	bus := session.NewBus()

	transport := &api.Transport{
		Base:              http.DefaultTransport,
		Tokens:            tokens,
		Bus:               bus,
		TokenFetchTimeout: c.TokenFetchTimeout,
	}
	apiClient := api.NewHTTPClient(c.APIBaseURL, transport, c.RequestTimeout)

	nc, err := nats.Connect(c.NATSURL)
	if err != nil {
		return nil, err
	}

	repo := chat.NewRepository(livesync.NewNATSConn(nc))

	as := services.NewAuthService(apiClient, tokens, bus)

	return &App{
		config:      c,
		authService: as,
		apiClient:   apiClient,
		repo:        repo,
		pager:       chat.NewPager(repo),
		bus:         bus,
		nc:          nc,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userID != ""
}

func (a *App) currentUser() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userID
}

func (a *App) setIdentity(userID string) {
	a.mu.Lock()
	a.userID = userID
	a.mu.Unlock()
}

func (a *App) openChatID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chatID
}

func (a *App) setOpenChat(chatID string) {
	a.mu.Lock()
	a.chatID = chatID
	a.mu.Unlock()
}

// StartSessionWatcher reacts to session announcements. A rejected or
// expired token means the stored credentials are useless, so the watcher
// drops them locally and resets the REPL to the logged-out state.
func (a *App) StartSessionWatcher(ctx context.Context) {

	events, cancel := a.bus.Subscribe()
	defer cancel()

	for {
		select {
		case e := <-events:
			if err := a.authService.ForceLogout(ctx); err != nil {
				log.Printf("error clearing session: %s", err.Error())
			}
			a.setIdentity("")
			a.setOpenChat("")
			log.Printf("Session ended (%s), please log in again", e.Reason)

		case <-ctx.Done():
			return
		}
	}
}

// Run restores a previously saved session if one exists, starts the
// background watchers, and enters the REPL. It blocks until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.nc.Close()
	defer a.pager.Stop()

	if id, err := a.authService.CurrentUserID(ctx); err == nil && id != "" {
		a.setIdentity(id)
		log.Printf("Restored session for %s", id)
	}

	go a.StartSessionWatcher(ctx)
	go a.printMessages()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := ""
	if a.userID != "" {
		s = a.userID
	}
	if a.chatID != "" {
		s = s + " #" + a.chatID
	}
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}
