package run

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/textio"
	"github.com/spf13/cobra"
	"go.firedancer.io/echo/pkg/accounts"
	"go.firedancer.io/echo/pkg/base58"
	"go.firedancer.io/echo/pkg/features"
	"go.firedancer.io/echo/pkg/scenario"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var Cmd = cobra.Command{
	Use:   "run <scenario.yaml>...",
	Short: "Execute scenarios against a local echo program host",
	Long: `Each scenario runs against its own in-memory account store, in parallel.
With --ledger, scenarios run one after another against the same lotusdb store.`,
	Args: cobra.MinimumNArgs(1),
	Run:  run,
}

var (
	ledgerDir        string
	enforceMintCheck bool
	printMetrics     bool
	parallelism      int
)

func init() {
	Cmd.Flags().StringVar(&ledgerDir, "ledger", "", "Persist accounts in a lotusdb directory across runs")
	Cmd.Flags().BoolVar(&enforceMintCheck, "enforce-mint-check", false, "Activate "+features.EnforceVendingMachineMintCheck.Name)
	Cmd.Flags().BoolVar(&printMetrics, "metrics", false, "Print instruction counters after the run")
	Cmd.Flags().IntVar(&parallelism, "parallelism", runtime.NumCPU(), "Scenarios to run at once without --ledger")
}

func newRunner(store accounts.Accounts) *scenario.Runner {
	runner := scenario.NewRunner(store)
	if enforceMintCheck {
		runner.Features = append(runner.Features, features.EnforceVendingMachineMintCheck)
	}
	return runner
}

func runOne(store accounts.Accounts, path string) (*scenario.Report, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	report, err := newRunner(store).Run(sc)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", sc.Name, err)
	}
	return report, nil
}

func runAll(paths []string) ([]*scenario.Report, error) {
	reports := make([]*scenario.Report, len(paths))

	if ledgerDir != "" {
		db, err := accounts.OpenPersistentAccountsDb(ledgerDir)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		klog.Infof("using ledger at %s", ledgerDir)

		for idx, path := range paths {
			reports[idx], err = runOne(db, path)
			if err != nil {
				return nil, err
			}
		}
		return reports, nil
	}

	var group errgroup.Group
	group.SetLimit(max(parallelism, 1))
	for idx, path := range paths {
		idx, path := idx, path
		group.Go(func() error {
			report, err := runOne(accounts.NewMemAccounts(), path)
			reports[idx] = report
			return err
		})
	}
	return reports, group.Wait()
}

func run(c *cobra.Command, args []string) {
	reports, err := runAll(args)
	if err != nil {
		klog.Exit(err)
	}

	out := c.OutOrStdout()
	highlight := false
	if f, ok := out.(*os.File); ok {
		highlight = isatty.IsTerminal(f.Fd())
	}

	failed := writeReports(out, reports, highlight)

	if printMetrics {
		writeMetrics(out)
	}

	if failed {
		klog.Flush()
		os.Exit(1)
	}
}

// writeReports prints every report and tells whether any transaction
// missed its expectation.
func writeReports(out io.Writer, reports []*scenario.Report, highlight bool) bool {
	failed := false
	for _, report := range reports {
		printReport(out, report, highlight)
		failed = failed || report.Failed()
	}
	return failed
}

func printReport(out io.Writer, report *scenario.Report, highlight bool) {
	fmt.Fprintf(out, "scenario: %s\n", report.Name)

	for _, tx := range report.Transactions {
		status := "ok"
		if tx.Err != nil {
			status = fmt.Sprintf("failed at instruction %d: %s (code %d)", tx.FailedInstruction, tx.Err, tx.Code)
		}
		if !tx.Matched {
			if highlight {
				status += " \x1b[31m[UNEXPECTED]\x1b[0m"
			} else {
				status += " [UNEXPECTED]"
			}
		}
		fmt.Fprintf(out, "tx %s: %s, %d CUs\n", tx.Name, status, tx.ComputeUnits)
		if tx.DeltaHash != ([32]byte{}) {
			fmt.Fprintf(out, "  delta hash: %s\n", base58.Encode(tx.DeltaHash[:]))
		}

		logs := textio.NewPrefixWriter(out, "    ")
		for _, line := range tx.Logs {
			fmt.Fprintln(logs, line)
		}
		logs.Flush()
	}

	fmt.Fprintln(out, "accounts:")
	w := textio.NewPrefixWriter(out, "  ")
	for _, st := range report.Accounts {
		acct := st.Account
		fmt.Fprintf(w, "%s %s\n", st.Name, acct.Key)
		fmt.Fprintf(w, "  owner: %s lamports: %d len: %d\n", acct.Owner, acct.Lamports, len(acct.Data))
		fmt.Fprintf(w, "  hash: %s\n", base58.Encode(st.Hash[:]))
		if len(acct.Data) != 0 && !bytes.Equal(acct.Data, make([]byte, len(acct.Data))) {
			fmt.Fprintf(w, "  data: %s\n", hex.EncodeToString(acct.Data))
		}
	}
	w.Flush()
}

func writeMetrics(out io.Writer) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		klog.Errorf("gathering metrics: %s", err)
		return
	}

	fmt.Fprintln(out, "metrics:")
	for _, family := range families {
		if family.GetName() != "echo_instructions_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			fmt.Fprintf(out, "  %s", family.GetName())
			for _, label := range metric.GetLabel() {
				fmt.Fprintf(out, " %s=%s", label.GetName(), label.GetValue())
			}
			fmt.Fprintf(out, " %v\n", metric.GetCounter().GetValue())
		}
	}
}
