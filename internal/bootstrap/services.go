package bootstrap

import (
	"github.com/osse101/GameBoxBot_Go/internal/account"
	"github.com/osse101/GameBoxBot_Go/internal/box"
	"github.com/osse101/GameBoxBot_Go/internal/catalog"
	"github.com/osse101/GameBoxBot_Go/internal/chat"
	"github.com/osse101/GameBoxBot_Go/internal/command"
	"github.com/osse101/GameBoxBot_Go/internal/concurrency"
	"github.com/osse101/GameBoxBot_Go/internal/daily"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
	"github.com/osse101/GameBoxBot_Go/internal/reward"
	"github.com/osse101/GameBoxBot_Go/internal/server"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
	"github.com/osse101/GameBoxBot_Go/internal/trade"
)

// Services holds every application service built on one store
type Services struct {
	Settings settings.Service
	Catalog  catalog.Service
	Accounts account.Service
	Boxes    box.Service
	Daily    daily.Service
	Trades   trade.Service
	Commands command.Service
	Chat     *chat.Router
}

// InitializeServices wires the services over store. Every service that
// moves coins or items shares one lock manager so per-user operations
// serialize across services.
func InitializeServices(store repository.Store, bus event.Bus, selector *reward.Selector) *Services {
	locks := concurrency.NewLockManager()

	settingsSvc := settings.NewService(store)
	catalogSvc := catalog.NewService(store, settingsSvc)

	svc := &Services{
		Settings: settingsSvc,
		Catalog:  catalogSvc,
		Accounts: account.NewService(store, settingsSvc, bus, locks),
		Boxes:    box.NewService(store, catalogSvc, settingsSvc, selector, bus, locks),
		Daily:    daily.NewService(store, catalogSvc, settingsSvc, selector, bus, locks),
		Trades:   trade.NewService(store, settingsSvc, bus, locks),
		Commands: command.NewService(store, chat.BuiltinNames()...),
	}
	svc.Chat = chat.NewRouter(chat.Services{
		Accounts: svc.Accounts,
		Boxes:    svc.Boxes,
		Daily:    svc.Daily,
		Trades:   svc.Trades,
		Catalog:  svc.Catalog,
		Commands: svc.Commands,
	}, settingsSvc)
	return svc
}

// Server returns the service set the HTTP server routes to
func (s *Services) Server() server.Services {
	return server.Services{
		Accounts: s.Accounts,
		Boxes:    s.Boxes,
		Daily:    s.Daily,
		Trades:   s.Trades,
		Catalog:  s.Catalog,
		Settings: s.Settings,
		Commands: s.Commands,
		Chat:     s.Chat,
	}
}
