package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"blinkaway/internal/command"
	"blinkaway/internal/config"
	"blinkaway/internal/core/model"
	"blinkaway/internal/core/timekeeper"
	"blinkaway/internal/dispatch"
	"blinkaway/internal/logger"
	"blinkaway/internal/platform"
	"blinkaway/internal/storage"
	"blinkaway/internal/ui/overlay"
	"blinkaway/internal/ui/preferences"
	"blinkaway/internal/ui/tray"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const (
	appName = "Blinkaway"
	appID   = "com.blinkaway.app"
)

func main() {
	service := platform.NewService()
	cfg, err := config.Load(os.Args[1:], func() (string, error) {
		return platform.AppConfigDir(service, appName)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.Autostart != "" {
		if err := applyAutostart(service, cfg); err != nil {
			logger.Errorf("autostart: %v", err)
			os.Exit(1)
		}
		return
	}

	if cfg.Command != "" {
		if err := forwardCommand(cfg.Command); err != nil {
			logger.Errorf("%s: %v", cfg.Command, err)
			os.Exit(1)
		}
		return
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Infof("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(theme.VisibilityIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Errorf("system tray unsupported on this platform")
		return
	}

	store := storage.NewStore(cfg.ConfigDir)
	logger.Debugf("settings file: %s", store.Path())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		surface     *command.Surface
		prefsWindow *preferences.Window
	)
	trayManager := tray.New(desktopApp, func(action dispatch.Action) {
		switch action {
		case dispatch.ActionSettings:
			prefsWindow.Show()
		case dispatch.ActionQuit:
			cancel()
			fyneApp.Quit()
		default:
			response := surface.Execute(ctx, command.Request{Type: command.Name(action)})
			if response.Type == command.ResponseError {
				logger.Warnf("tray %s: %s", action, response.Error)
			}
		}
	})
	overlays := overlay.NewManager(fyneApp, overlay.DefaultConfig(), func() {
		if err := surface.SkipBreak(); err != nil {
			logger.Warnf("skip break: %v", err)
		}
	})

	fyneApp.Lifecycle().SetOnStopped(overlays.Shutdown)

	dispatcher := dispatch.New(overlays, trayManager, store)
	keeper := timekeeper.New(store.Load(), dispatcher, timekeeper.Config{})
	keeper.SetIdleChecker(platform.NewIdleProvider())
	surface = command.New(keeper)
	prefsWindow = preferences.New(fyneApp, settingsBackend{surface: surface, dispatcher: dispatcher})

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			if event.Type != timekeeper.EventStateChange {
				continue
			}
			trayManager.SetPaused(event.Kind != timekeeper.KindWorking && event.Kind != timekeeper.KindOnBreak)
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return keeper.Run(groupCtx)
	})
	group.Go(func() error {
		if err := guard.Serve(groupCtx, surface.HandleLine); err != nil {
			logger.Warnf("command listener: %v", err)
		}
		return nil
	})
	group.Go(func() error {
		err := store.Watch(groupCtx, storage.DefaultDebounce, func(updated model.TimerConfig) {
			keeper.Enqueue(timekeeper.CmdSaveSettings{Config: updated, FromDisk: true})
		})
		if err != nil {
			logger.Warnf("settings watcher: %v", err)
		}
		return nil
	})

	if err := surface.Start(); err != nil {
		logger.Errorf("start timer: %v", err)
	}

	fyneApp.Run()

	overlays.Shutdown()
	cancel()
	if err := group.Wait(); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

type settingsBackend struct {
	surface    *command.Surface
	dispatcher *dispatch.Dispatcher
}

func (backend settingsBackend) GetSettings(ctx context.Context) (model.TimerConfig, error) {
	return backend.surface.GetSettings(ctx)
}

func (backend settingsBackend) SaveSettings(ctx context.Context, config model.TimerConfig) error {
	return backend.surface.SaveSettings(ctx, config)
}

func (backend settingsBackend) AttachView(view dispatch.CountdownView) func() {
	return backend.dispatcher.AttachView(view)
}

func applyAutostart(service platform.Service, cfg *config.Config) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	launch := platform.Launch{AppName: appName, ExecPath: execPath, Args: cfg.LaunchArgs()}
	if err := platform.ApplyAutostart(service, cfg.Autostart, launch); err != nil {
		return err
	}
	logger.Infof("autostart: %s done (%s)", cfg.Autostart, strings.Join(launch.Command(), " "))
	return nil
}

func forwardCommand(name string) error {
	if !command.Known(command.Name(name)) {
		return fmt.Errorf("%w: %s", command.ErrUnknownCommand, name)
	}
	if command.Name(name) == command.SaveSettings {
		return fmt.Errorf("%w: use the settings window", command.ErrInvalidPayload)
	}
	request, err := command.NewRequest(command.Name(name), nil)
	if err != nil {
		return err
	}
	line, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	raw, err := platform.Forward(ctx, appName, line)
	if err != nil {
		return err
	}

	var response command.Response
	if err := json.Unmarshal(raw, &response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if response.Type == command.ResponseError {
		return errors.New(response.Error)
	}
	if len(response.Payload) > 0 {
		fmt.Println(string(response.Payload))
	}
	return nil
}
