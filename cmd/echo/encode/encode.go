package encode

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.firedancer.io/echo/pkg/base58"
	"go.firedancer.io/echo/pkg/echo"
	"k8s.io/klog/v2"
)

var Cmd = cobra.Command{
	Use:   "encode <kind> <args...>",
	Short: "Print the wire encoding of an echo instruction",
	Long: `Kinds:
  echo <data>
  authorized-echo <data>
  initialize-authorized-echo <buffer_seed> <buffer_size>
  initialize-vending-machine <price> <buffer_size>

<data> is taken as text, or as hex when --hex is set.`,
	Args: cobra.MinimumNArgs(1),
	Run:  run,
}

var dataIsHex bool

func init() {
	Cmd.Flags().BoolVar(&dataIsHex, "hex", false, "Interpret <data> as hex")
}

func payload(arg string) []byte {
	if !dataIsHex {
		return []byte(arg)
	}
	data, err := hex.DecodeString(arg)
	if err != nil {
		klog.Exitf("invalid hex data: %s", err)
	}
	return data
}

func uint64Arg(name string, arg string) uint64 {
	v, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		klog.Exitf("invalid %s %q: %s", name, arg, err)
	}
	return v
}

func parse(args []string) (echo.Instruction, error) {
	kind, rest := args[0], args[1:]

	want := map[string]int{
		"echo":                       1,
		"authorized-echo":            1,
		"initialize-authorized-echo": 2,
		"initialize-vending-machine": 2,
	}
	n, ok := want[kind]
	if !ok {
		return nil, fmt.Errorf("unknown instruction kind %q", kind)
	}
	if len(rest) != n {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", kind, n, len(rest))
	}

	switch kind {
	case "echo":
		return &echo.InstrEcho{Data: payload(rest[0])}, nil
	case "authorized-echo":
		return &echo.InstrAuthorizedEcho{Data: payload(rest[0])}, nil
	case "initialize-authorized-echo":
		return &echo.InstrInitializeAuthorizedEcho{
			BufferSeed: uint64Arg("buffer_seed", rest[0]),
			BufferSize: uint64Arg("buffer_size", rest[1]),
		}, nil
	default:
		return &echo.InstrInitializeVendingMachine{
			Price:      uint64Arg("price", rest[0]),
			BufferSize: uint64Arg("buffer_size", rest[1]),
		}, nil
	}
}

func run(c *cobra.Command, args []string) {
	instr, err := parse(args)
	if err != nil {
		klog.Exit(err)
	}

	data, err := echo.EncodeInstruction(instr)
	if err != nil {
		klog.Exitf("encoding %s: %s", instr.Name(), err)
	}

	fmt.Fprintf(c.OutOrStdout(), "hex: %s\nbase58: %s\n", hex.EncodeToString(data), base58.Encode(data))
}
