package derive

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.firedancer.io/echo/pkg/echo"
	"k8s.io/klog/v2"
)

var Cmd = cobra.Command{
	Use:   "derive",
	Short: "Derive buffer addresses",
}

var authorityCmd = cobra.Command{
	Use:   "authority",
	Short: "Derive the authorized buffer address of an authority",
	Args:  cobra.NoArgs,
	Run:   runAuthority,
}

var vendingMachineCmd = cobra.Command{
	Use:   "vending-machine",
	Short: "Derive the vending machine buffer address of a mint and price",
	Args:  cobra.NoArgs,
	Run:   runVendingMachine,
}

var (
	programIdStr string
	authorityStr string
	bufferSeed   uint64
	mintStr      string
	price        uint64
)

func init() {
	Cmd.PersistentFlags().StringVar(&programIdStr, "program", echo.ProgramIDStr, "Echo program id")

	authorityCmd.Flags().StringVar(&authorityStr, "authority", "", "Authority address")
	authorityCmd.Flags().Uint64Var(&bufferSeed, "seed", 0, "Buffer seed")
	authorityCmd.MarkFlagRequired("authority")

	vendingMachineCmd.Flags().StringVar(&mintStr, "mint", "", "Token mint address")
	vendingMachineCmd.Flags().Uint64Var(&price, "price", 0, "Price")
	vendingMachineCmd.MarkFlagRequired("mint")

	Cmd.AddCommand(&authorityCmd, &vendingMachineCmd)
}

func mustPubkey(name string, s string) solana.PublicKey {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		klog.Exitf("invalid %s %q: %s", name, s, err)
	}
	return key
}

func runAuthority(c *cobra.Command, _ []string) {
	programId := mustPubkey("program", programIdStr)
	authority := mustPubkey("authority", authorityStr)

	addr, bump, err := echo.FindAuthorizedBufferAddress(programId, authority, bufferSeed)
	if err != nil {
		klog.Exitf("derivation failed: %s", err)
	}

	fmt.Fprintf(c.OutOrStdout(), "address: %s\nbump: %d\n", addr, bump)
}

func runVendingMachine(c *cobra.Command, _ []string) {
	programId := mustPubkey("program", programIdStr)
	mint := mustPubkey("mint", mintStr)

	addr, bump, err := echo.FindVendingMachineBufferAddress(programId, mint, price)
	if err != nil {
		klog.Exitf("derivation failed: %s", err)
	}

	fmt.Fprintf(c.OutOrStdout(), "address: %s\nbump: %d\n", addr, bump)
}
