// Клиент kids-hotline для разработки: вход, просмотр каталога и проверка
// контроллеров воспроизведения из интерактивной строки. Вместо платформенных
// медиапримитивов используется сессия-заглушка, пишущая действия в лог.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/moshehoffman37-prog/kids-hotline/internal/aggregator"
	"github.com/moshehoffman37-prog/kids-hotline/internal/apiclient"
	"github.com/moshehoffman37-prog/kids-hotline/internal/config"
	"github.com/moshehoffman37-prog/kids-hotline/internal/entitlement"
	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/sl"
	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
	"github.com/moshehoffman37-prog/kids-hotline/internal/playback"
	"github.com/moshehoffman37-prog/kids-hotline/internal/session"
	"github.com/moshehoffman37-prog/kids-hotline/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.OpenSQLite(cfg.StoragePath)
	if err != nil {
		logger.Error("failed to open local storage", sl.Err(err))
		os.Exit(1)
	}
	defer store.Close()

	api := apiclient.New(cfg.BaseURL, cfg.CDNBaseURL, cfg.Client.Timeout, store, logger)
	sessions := session.NewManager(store, api, logger)
	catalog := aggregator.New(api, store, logger)
	entitlements := entitlement.New(api, store, logger)

	if err := sessions.Hydrate(ctx); err != nil {
		logger.Error("failed to hydrate session", sl.Err(err))
		os.Exit(1)
	}
	if s := sessions.Session(); s.IsAuthenticated {
		fmt.Printf("signed in as %s\n", s.User.Email)
	} else {
		fmt.Println("not signed in; use: login <email> <password>")
	}

	repl(ctx, sessions, catalog, entitlements, api, store, logger)
}

func repl(
	ctx context.Context,
	sessions *session.Manager,
	catalog *aggregator.Service,
	entitlements *entitlement.Service,
	api *apiclient.Client,
	store storage.Store,
	logger *slog.Logger,
) {
	scanner := bufio.NewScanner(os.Stdin)
	sections := []models.CategorySection(nil)

	fmt.Println("commands: login, logout, sections, open <id>, sub, quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return

		case "login":
			if len(fields) != 3 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			if err := sessions.Login(ctx, fields[1], fields[2]); err != nil {
				fmt.Println("login failed:", err)
				continue
			}
			fmt.Println("signed in")

		case "logout":
			sessions.Logout(ctx)
			fmt.Println("signed out")

		case "sub":
			ent := entitlements.Check(ctx)
			fmt.Printf("status=%s active=%v\n", ent.SubscriptionStatus, ent.Active)

		case "sections":
			res, err := catalog.Sections(ctx)
			if err != nil {
				handleAPIError(ctx, err, sessions)
				continue
			}
			sections = res
			for _, section := range sections {
				fmt.Printf("[%s] %s (%d)\n", section.Kind, section.Name, len(section.Items))
				for _, item := range section.Items {
					badge := ""
					if item.IsNew {
						badge = " *new*"
					}
					fmt.Printf("  %s  %s%s\n", item.ID, item.Title, badge)
				}
			}

		case "open":
			if len(fields) != 2 {
				fmt.Println("usage: open <id>")
				continue
			}
			openItem(ctx, fields[1], sections, catalog, api, store, logger)

		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func openItem(
	ctx context.Context,
	id string,
	sections []models.CategorySection,
	catalog *aggregator.Service,
	api *apiclient.Client,
	store storage.Store,
	logger *slog.Logger,
) {
	var item *models.ContentItem
	for _, section := range sections {
		for i := range section.Items {
			if section.Items[i].ID == id {
				item = &section.Items[i]
			}
		}
	}
	if item == nil {
		fmt.Println("unknown item id; run `sections` first")
		return
	}

	switch item.Type {
	case models.MediaTypeVideo:
		controller := playback.NewVideoController(id, api, catalog, logger)
		if err := controller.Load(ctx); err != nil {
			fmt.Println("cannot play:", err)
			return
		}
		source := controller.Source()
		fmt.Printf("playing via %s: %s\n", source.Kind, source.URL)

	case models.MediaTypeAudio:
		controller := playback.NewAudioController(id, api, store, logOpener{logger}, logger)
		defer controller.Close()
		if err := controller.Toggle(ctx); err != nil {
			fmt.Println("cannot play:", err)
			return
		}
		catalog.MarkOpened(ctx, id)
		fmt.Printf("audio playing at %gx\n", controller.Rate())

	case models.MediaTypeDocument:
		catalog.MarkOpened(ctx, id)
		for _, url := range playback.PageURLs(api, id, item.PageCount) {
			fmt.Println(url)
		}
	}
}

func handleAPIError(ctx context.Context, err error, sessions *session.Manager) {
	var authErr *apiclient.AuthExpiredError
	if errors.As(err, &authErr) {
		sessions.Logout(ctx)
		fmt.Println(authErr.Error())
		return
	}
	fmt.Println("error:", err)
}

// logOpener — сессия-заглушка вместо платформенного декодера.
type logOpener struct {
	log *slog.Logger
}

func (o logOpener) Open(_ context.Context, url string, _ map[string]string) (playback.MediaSession, error) {
	return &logSession{log: o.log, url: url}, nil
}

type logSession struct {
	log *slog.Logger
	url string
}

func (s *logSession) Play() error {
	s.log.Info("play", slog.String("url", s.url))
	return nil
}

func (s *logSession) Pause() error {
	s.log.Info("pause")
	return nil
}

func (s *logSession) SeekTo(position float64) error {
	s.log.Info("seek", slog.Float64("pos", position))
	return nil
}

func (s *logSession) SetRate(rate float64) error {
	s.log.Info("rate", slog.Float64("rate", rate))
	return nil
}

func (s *logSession) Release() { s.log.Info("release") }
