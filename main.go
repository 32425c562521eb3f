package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"loventy.org/configs/configsapp"
	"loventy.org/configs/configsdatabase"
	"loventy.org/configs/configslog"
	"loventy.org/routes"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configsapp.Load()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	engine := html.New("./views", ".html")
	engine.Reload(cfg.Env == "development")

	app := fiber.New(fiber.Config{
		Views:       engine,
		AppName:     "loventy",
		BodyLimit:   12 << 20, // uploads are capped at 10 MiB plus form overhead
		ProxyHeader: fiber.HeaderXForwardedFor,
	})

	routes.SetupRoutes(app, cfg)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		configslog.SLog.Info("Shutting down...")
		_ = app.Shutdown()
	}()

	configslog.SLog.Infof("Listening on %s", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		configslog.Log.Fatal("Server stopped", zap.Error(err))
	}
}
