package main

import (
	"context"
	"docflow-backend/config"
	apiv1 "docflow-backend/controllers/v1"
	"docflow-backend/controllers/v1/dict"
	"docflow-backend/fiberlog"
	"docflow-backend/initializers"
	"docflow-backend/middleware"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.ContentLimit + 1024*1024, // содержимое версии + поля формы
	})
	app.Use(fiberRecover.New())

	// docs/swagger.json генерируется swag init, без него документация не публикуется
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: swaggerFile,
		}))
	}

	//api
	apiV1 := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.ContentLimit + 1024*1024,
	})
	apiV1.Use(requestid.New())
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	if config.Conf.App.ErrNotifyAddr != "" {
		apiV1.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyAddr))
	}
	apiV1.Use(middleware.WithBodyLimit(config.Conf.App.BodyLimit))
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	app.Mount("/api/v1", apiV1)

	//документооборот
	docflow := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.ContentLimit + 1024*1024,
	})
	apiV1.Mount("/", docflow)
	docflow.Use(middleware.AuthorizationRequired())

	//dict
	dicts := fiber.New()
	docflow.Mount("/dict", dicts)
	dict.InitRoleDictApiRouters(dicts)
	dict.InitDepartmentDictApiRouters(dicts)
	dict.InitDocumentTypeDictApiRouters(dicts)

	apiv1.InitDocumentApiRouters(docflow)
	apiv1.InitVersionApiRouters(docflow)
	apiv1.InitVotingApiRouters(docflow)
	apiv1.InitSignatureApiRouters(docflow)
	apiv1.InitUserApiRouters(docflow)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
