package main

import (
	"fmt"
	"os"

	"papertrader/cmd/klines"
	"papertrader/src/app"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var Version string

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "Papertrader CMD"
	cliApp.Usage = "The papertrader command line interface"

	cliApp.Commands = []cli.Command{
		serverCMD,
		klinesCMD,
	}

	if err := cliApp.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serverCMD = cli.Command{
		Name:        "server",
		Usage:       "run the API server",
		Action:      serverAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the market data, ticker and ledger services behind the JSON API`,
	}
	klinesCMD = cli.Command{
		Name:        "klines",
		Usage:       "fetch hourly candles",
		Action:      klinesAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Fetch and print hourly candles for one symbol`,
	}
)

func serverAction(_ *cli.Context) error {
	logrus.Info("Starting server CMD")

	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	return nil
}

func klinesAction(_ *cli.Context) error {
	logrus.Info("Starting klines CMD")

	k := &klines.Klines{
		Log: logrus.WithField("cmd", "klines"),
	}
	if err := k.Start(); err != nil {
		logrus.WithError(err).Error("Starting klines CMD")
		return err
	}
	return nil
}
