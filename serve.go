package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"

	wa "github.com/aniweek-io/web-ui/handlers/anime"
	we "github.com/aniweek-io/web-ui/handlers/export"
	"github.com/aniweek-io/web-ui/services/airing"
	animeService "github.com/aniweek-io/web-ui/services/anime"
	"github.com/aniweek-io/web-ui/services/calendar"
	"github.com/aniweek-io/web-ui/services/common"
	exportService "github.com/aniweek-io/web-ui/services/export"
	"github.com/aniweek-io/web-ui/services/refresh"
	w "github.com/aniweek-io/web-ui/services/web"
)

func makeServeCMD() cli.Command {
	serveCMD := cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves web server",
		Action:  serve,
	}
	configureServe(&serveCMD)
	return serveCMD
}

func configureServe(c *cli.Command) {
	c.Flags = cs.RegisterPGFlags(c.Flags)
	c.Flags = cs.RegisterProbeFlags(c.Flags)
	c.Flags = cs.RegisterPprofFlags(c.Flags)
	c.Flags = w.RegisterFlags(c.Flags)
	c.Flags = common.RegisterFlags(c.Flags)
	c.Flags = calendar.RegisterFlags(c.Flags)
	c.Flags = refresh.RegisterFlags(c.Flags)
}

func serve(c *cli.Context) error {
	// Setting HTTP Client
	cl := http.DefaultClient

	// Setting DB
	pg := cs.NewPG(c)
	defer pg.Close()

	// Setting Migrations
	err := pgMigrate(c)
	if err != nil {
		return err
	}

	// Setting Airing Engine
	engine, err := airing.New(c)
	if err != nil {
		return err
	}

	// Setting Calendar Api
	capi := calendar.New(c, cl)
	var events animeService.EventStore
	if capi != nil {
		events = capi
	}

	// Setting Anime Store
	store := animeService.NewStore(pg)

	// Setting Anime Service
	anime := animeService.NewService(store, events, engine)

	var servers []cs.Servable
	// Setting Probe
	probe := cs.NewProbe(c)
	if probe != nil {
		servers = append(servers, probe)
		defer probe.Close()
	}

	// Setting Pprof
	pprof := cs.NewPprof(c)
	if pprof != nil {
		servers = append(servers, pprof)
		defer pprof.Close()
	}

	// Setting Refresher
	ref := refresh.New(c, anime.RefreshDerived)
	servers = append(servers, ref)
	defer ref.Close()

	// Setting Gin
	r := gin.Default()
	r.RedirectTrailingSlash = false

	// Setting Web
	web := w.New(c, r)
	servers = append(servers, web)
	defer web.Close()

	// Setting AnimeHandler
	wa.RegisterHandler(r, anime)

	// Setting Export
	exp := exportService.New(anime, common.GetDomain(c))

	// Setting ExportHandler
	we.RegisterHandler(r, exp)

	// Setting Serve
	serve := cs.NewServe(servers...)

	// And SERVE!
	err = serve.Serve()
	if err != nil {
		log.WithError(err).Error("got server error")
	}
	return err
}
