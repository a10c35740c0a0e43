package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/client/client"
	"github.com/dmitrijs2005/mapkeeper/internal/client/config"
	"github.com/dmitrijs2005/mapkeeper/internal/client/persistence"
	"github.com/dmitrijs2005/mapkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/mapkeeper/internal/client/store"
	"github.com/dmitrijs2005/mapkeeper/internal/filex"
	"github.com/dmitrijs2005/mapkeeper/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

var errNotLoggedIn = errors.New("you must be logged in")

type App struct {
	config  *config.Config
	db      *store.Database
	gateway *persistence.Gateway
	mirror  client.Client
	sqlDB   *sql.DB
	logger  logging.Logger

	reader *bufio.Reader
	out    io.Writer

	token    string
	userName string

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the local database, connects the configured mirror and loads
// the stores. An empty DatabasePath keeps everything in memory.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, c.LogLevel, os.Stderr)

	var (
		repo  kv.Repository
		sqlDB *sql.DB
	)
	if c.DatabasePath == "" {
		repo = kv.NewMemoryRepository()
	} else {
		if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
			return nil, err
		}
		db, err := client.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		sqlDB = db
		repo = kv.NewSQLiteRepository(db)
	}

	mirror, err := client.NewFromConfig(ctx, c)
	if err != nil {
		closeQuietly(sqlDB)
		return nil, err
	}

	key, err := c.SealKey()
	if err != nil {
		closeQuietly(sqlDB)
		return nil, err
	}

	gwOpts := []persistence.Option{persistence.WithLogger(logger), persistence.WithSealKey(key)}
	mode := ModeDisabled
	if mirror != nil {
		gwOpts = append(gwOpts, persistence.WithMirror(mirror, c.MirrorTimeout))
		mode = ModeOffline
	}
	gw := persistence.New(repo, gwOpts...)

	db := store.Open(ctx, gw, store.WithLogger(logger), store.WithSessionTTL(c.SessionTTL))

	return &App{
		config:  c,
		db:      db,
		gateway: gw,
		mirror:  mirror,
		sqlDB:   sqlDB,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		mode:    mode,
	}, nil
}

func closeQuietly(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to the mapkeeper CLI (type 'help' for commands)")

	if a.mirror != nil {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close flushes pending mirror pushes and releases the database.
func (a *App) Close() {
	if a.gateway != nil {
		_ = a.gateway.Close()
	}
	if a.mirror != nil {
		_ = a.mirror.Close()
	}
	closeQuietly(a.sqlDB)
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "switched mode", "mode", mode)
	}
}

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		s = a.userName + " "
	}
	s += string(a.Mode())
	return fmt.Sprintf("(%s)", s)
}

// StartOnlineStatusWatcher pings the mirror every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.mirror.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
