package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.firedancer.io/echo/cmd/echo/derive"
	"go.firedancer.io/echo/cmd/echo/encode"
	"go.firedancer.io/echo/cmd/echo/run"
	"k8s.io/klog/v2"
)

var cmd = cobra.Command{
	Use:   "echo",
	Short: "Echo program toolkit",
}

func init() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(
		&derive.Cmd,
		&encode.Cmd,
		&run.Cmd,
	)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	cobra.CheckErr(cmd.ExecuteContext(ctx))
}
