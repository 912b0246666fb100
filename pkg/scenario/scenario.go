package scenario

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a YAML description of accounts and the transactions to run
// against them.
type Scenario struct {
	Name         string        `yaml:"name"`
	Features     []string      `yaml:"features"`
	Rent         *RentSpec     `yaml:"rent"`
	Accounts     []AccountSpec `yaml:"accounts"`
	Transactions []TxSpec      `yaml:"transactions"`
}

type RentSpec struct {
	LamportsPerByteYear uint64  `yaml:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `yaml:"exemption_threshold"`
	BurnPercent         uint8   `yaml:"burn_percent"`
}

// AccountSpec declares a named account. Key defaults to a value derived
// from the name, or to the program derived address described by PDA.
type AccountSpec struct {
	Name       string    `yaml:"name"`
	Key        string    `yaml:"key"`
	Lamports   uint64    `yaml:"lamports"`
	Owner      string    `yaml:"owner"`
	Data       string    `yaml:"data"`
	Size       uint64    `yaml:"size"`
	Executable bool      `yaml:"executable"`
	PDA        *PDASpec  `yaml:"pda"`
	Mint       *MintSpec `yaml:"mint"`
}

// PDASpec names either an authorized buffer (Authority, Seed) or a vending
// machine buffer (Mint, Price). Authority and Mint refer to other accounts.
type PDASpec struct {
	Authority string  `yaml:"authority"`
	Seed      *uint64 `yaml:"seed"`
	Mint      string  `yaml:"mint"`
	Price     *uint64 `yaml:"price"`
}

// MintSpec fills the account with an initialized SPL token mint.
type MintSpec struct {
	Authority string `yaml:"authority"`
	Supply    uint64 `yaml:"supply"`
	Decimals  uint8  `yaml:"decimals"`
}

type TxSpec struct {
	Name         string      `yaml:"name"`
	Instructions []InstrSpec `yaml:"instructions"`
	ExpectError  string      `yaml:"expect_error"`
	ExpectCode   *int        `yaml:"expect_code"`
}

// InstrSpec holds exactly one instruction.
type InstrSpec struct {
	Echo                     *EchoSpec                     `yaml:"echo"`
	InitializeAuthorizedEcho *InitializeAuthorizedEchoSpec `yaml:"initialize_authorized_echo"`
	AuthorizedEcho           *AuthorizedEchoSpec           `yaml:"authorized_echo"`
	InitializeVendingMachine *InitializeVendingMachineSpec `yaml:"initialize_vending_machine"`
	Transfer                 *TransferSpec                 `yaml:"transfer"`
}

// Payload is instruction data given as text or as hex.
type Payload struct {
	Data    string `yaml:"data"`
	DataHex string `yaml:"data_hex"`
}

type EchoSpec struct {
	Buffer  string `yaml:"buffer"`
	Payload `yaml:",inline"`
}

type InitializeAuthorizedEchoSpec struct {
	Authority  string `yaml:"authority"`
	Buffer     string `yaml:"buffer"`
	BufferSeed uint64 `yaml:"buffer_seed"`
	BufferSize uint64 `yaml:"buffer_size"`
}

type AuthorizedEchoSpec struct {
	Buffer    string `yaml:"buffer"`
	Authority string `yaml:"authority"`
	NoSign    bool   `yaml:"no_sign"`
	Payload   `yaml:",inline"`
}

type InitializeVendingMachineSpec struct {
	Buffer     string `yaml:"buffer"`
	Mint       string `yaml:"mint"`
	Payer      string `yaml:"payer"`
	Price      uint64 `yaml:"price"`
	BufferSize uint64 `yaml:"buffer_size"`
}

type TransferSpec struct {
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Lamports uint64 `yaml:"lamports"`
}

func Parse(r io.Reader) (*Scenario, error) {
	var sc Scenario

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	err := decoder.Decode(&sc)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	return &sc, nil
}

func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}
