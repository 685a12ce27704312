package main

import (
	"github.com/urfave/cli"
)

func configure(app *cli.App) {
	serveCMD := makeServeCMD()
	migrationCMD := makePGMigrationCMD()
	refreshCMD := makeRefreshCMD()
	exportCMD := makeExportCMD()
	importCMD := makeImportCMD()
	app.Commands = []cli.Command{serveCMD, migrationCMD, refreshCMD, exportCMD, importCMD}
}
