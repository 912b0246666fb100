package scenario

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/minio/sha256-simd"
	"github.com/samber/lo"
	"go.firedancer.io/echo/pkg/accounts"
	"go.firedancer.io/echo/pkg/echo"
	"go.firedancer.io/echo/pkg/features"
	"go.firedancer.io/echo/pkg/global"
	"go.firedancer.io/echo/pkg/sealevel"
	"k8s.io/klog/v2"
)

var (
	ErrUnknownAccount     = errors.New("unknown account")
	ErrDuplicateAccount   = errors.New("duplicate account")
	ErrUnknownFeature     = errors.New("unknown feature")
	ErrInvalidInstruction = errors.New("instruction must name exactly one kind")
	ErrInvalidPDA         = errors.New("pda must name either authority and seed or mint and price")
)

// Runner executes scenarios against an account store. Accounts already
// present in Store take precedence over their scenario declaration, so a
// persistent store carries state between runs.
type Runner struct {
	Store     accounts.Accounts
	ProgramID solana.PublicKey
	Features  []features.FeatureGate
}

func NewRunner(store accounts.Accounts) *Runner {
	return &Runner{Store: store, ProgramID: echo.ProgramID}
}

type TxResult struct {
	Name              string
	Logs              []string
	Err               error
	Code              int
	FailedInstruction int
	ComputeUnits      uint64
	// DeltaHash covers the accounts the transaction modified.
	DeltaHash [32]byte
	// Matched is false when the outcome differs from the expectation.
	Matched bool
}

type AccountState struct {
	Name    string
	Account accounts.Account
	Hash    [32]byte
}

type Report struct {
	Name         string
	Transactions []TxResult
	Accounts     []AccountState
}

// Failed reports whether any transaction did not match its expectation.
func (r *Report) Failed() bool {
	return lo.SomeBy(r.Transactions, func(tx TxResult) bool { return !tx.Matched })
}

type resolver struct {
	keys  map[string]solana.PublicKey
	specs map[string]AccountSpec
}

func (r *resolver) key(name string) (solana.PublicKey, error) {
	key, ok := r.keys[name]
	if !ok {
		return solana.PublicKey{}, fmt.Errorf("%w: %q", ErrUnknownAccount, name)
	}
	return key, nil
}

// NameKey returns the key an undeclared-key account called name receives.
func NameKey(name string) solana.PublicKey {
	return solana.PublicKey(sha256.Sum256([]byte("echo-scenario:" + name)))
}

func (r *Runner) resolveKeys(sc *Scenario) (*resolver, error) {
	res := &resolver{keys: make(map[string]solana.PublicKey), specs: make(map[string]AccountSpec)}

	names := lo.Map(sc.Accounts, func(spec AccountSpec, _ int) string { return spec.Name })
	if dups := lo.FindDuplicates(names); len(dups) != 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, strings.Join(dups, ", "))
	}

	for _, spec := range sc.Accounts {
		res.specs[spec.Name] = spec
		switch {
		case spec.Key != "":
			key, err := solana.PublicKeyFromBase58(spec.Key)
			if err != nil {
				return nil, fmt.Errorf("account %s: %w", spec.Name, err)
			}
			res.keys[spec.Name] = key
		case spec.PDA == nil:
			res.keys[spec.Name] = NameKey(spec.Name)
		}
	}

	// derived accounts refer to the plain ones
	for _, spec := range sc.Accounts {
		if spec.PDA == nil || spec.Key != "" {
			continue
		}
		key, err := r.derive(res, spec.PDA)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", spec.Name, err)
		}
		res.keys[spec.Name] = key
	}

	return res, nil
}

func (r *Runner) derive(res *resolver, spec *PDASpec) (solana.PublicKey, error) {
	switch {
	case spec.Authority != "" && spec.Seed != nil && spec.Mint == "":
		authority, err := res.key(spec.Authority)
		if err != nil {
			return solana.PublicKey{}, err
		}
		key, _, err := echo.FindAuthorizedBufferAddress(r.ProgramID, authority, *spec.Seed)
		return key, err
	case spec.Mint != "" && spec.Price != nil && spec.Authority == "":
		mint, err := res.key(spec.Mint)
		if err != nil {
			return solana.PublicKey{}, err
		}
		key, _, err := echo.FindVendingMachineBufferAddress(r.ProgramID, mint, *spec.Price)
		return key, err
	}
	return solana.PublicKey{}, ErrInvalidPDA
}

func (r *Runner) owner(name string) (solana.PublicKey, error) {
	switch name {
	case "", "system":
		return sealevel.SystemProgramAddr, nil
	case "echo":
		return r.ProgramID, nil
	case "token":
		return solana.TokenProgramID, nil
	}
	return solana.PublicKeyFromBase58(name)
}

func encodeMint(authority solana.PublicKey, spec *MintSpec) ([]byte, error) {
	buf := new(bytes.Buffer)
	encoder := bin.NewBinEncoder(buf)

	err := encoder.WriteUint32(1, bin.LE)
	if err != nil {
		return nil, err
	}
	err = encoder.WriteBytes(authority[:], false)
	if err != nil {
		return nil, err
	}
	err = encoder.WriteUint64(spec.Supply, bin.LE)
	if err != nil {
		return nil, err
	}
	err = encoder.WriteUint8(spec.Decimals)
	if err != nil {
		return nil, err
	}
	err = encoder.WriteBool(true)
	if err != nil {
		return nil, err
	}
	// no freeze authority
	err = encoder.WriteUint32(0, bin.LE)
	if err != nil {
		return nil, err
	}
	err = encoder.WriteBytes(make([]byte, solana.PublicKeyLength), false)
	if err != nil {
		return nil, err
	}

	if buf.Len() != token.MINT_SIZE {
		return nil, fmt.Errorf("mint encoded to %d bytes", buf.Len())
	}
	return buf.Bytes(), nil
}

func (r *Runner) buildAccount(res *resolver, spec AccountSpec) (accounts.Account, error) {
	key := res.keys[spec.Name]

	owner, err := r.owner(spec.Owner)
	if err != nil {
		return accounts.Account{}, fmt.Errorf("account %s owner: %w", spec.Name, err)
	}

	acct := accounts.Account{Key: key, Lamports: spec.Lamports, Owner: owner, Executable: spec.Executable}

	switch {
	case spec.Mint != nil:
		authority, err := res.key(spec.Mint.Authority)
		if err != nil {
			return accounts.Account{}, fmt.Errorf("account %s mint authority: %w", spec.Name, err)
		}
		acct.Data, err = encodeMint(authority, spec.Mint)
		if err != nil {
			return accounts.Account{}, err
		}
		if spec.Owner == "" {
			acct.Owner = solana.TokenProgramID
		}
	case spec.Data != "":
		acct.Data, err = hex.DecodeString(spec.Data)
		if err != nil {
			return accounts.Account{}, fmt.Errorf("account %s data: %w", spec.Name, err)
		}
	default:
		acct.Data = make([]byte, spec.Size)
	}

	return acct, nil
}

func (p Payload) bytes() ([]byte, error) {
	if p.DataHex != "" {
		return hex.DecodeString(p.DataHex)
	}
	return []byte(p.Data), nil
}

func (r *Runner) buildInstruction(res *resolver, spec InstrSpec) (sealevel.Instruction, error) {
	set := lo.Filter([]bool{
		spec.Echo != nil,
		spec.InitializeAuthorizedEcho != nil,
		spec.AuthorizedEcho != nil,
		spec.InitializeVendingMachine != nil,
		spec.Transfer != nil,
	}, func(b bool, _ int) bool { return b })
	if len(set) != 1 {
		return sealevel.Instruction{}, ErrInvalidInstruction
	}

	switch {
	case spec.Echo != nil:
		buffer, err := res.key(spec.Echo.Buffer)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		data, err := spec.Echo.bytes()
		if err != nil {
			return sealevel.Instruction{}, err
		}
		return echo.NewEchoInstruction(r.ProgramID, buffer, data), nil

	case spec.InitializeAuthorizedEcho != nil:
		s := spec.InitializeAuthorizedEcho
		authority, err := res.key(s.Authority)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		ix, derived, err := echo.NewInitializeAuthorizedEchoInstruction(r.ProgramID, authority, s.BufferSeed, s.BufferSize)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		// an explicit buffer may deliberately differ from the derived one
		if s.Buffer != "" {
			buffer, err := res.key(s.Buffer)
			if err != nil {
				return sealevel.Instruction{}, err
			}
			if buffer != derived {
				klog.V(2).Infof("buffer %s is not the derived address %s", buffer, derived)
			}
			ix.Accounts[0].Pubkey = buffer
		}
		return ix, nil

	case spec.AuthorizedEcho != nil:
		s := spec.AuthorizedEcho
		buffer, err := res.key(s.Buffer)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		authority, err := res.key(s.Authority)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		data, err := s.bytes()
		if err != nil {
			return sealevel.Instruction{}, err
		}
		ix := echo.NewAuthorizedEchoInstruction(r.ProgramID, buffer, authority, data)
		ix.Accounts[1].IsSigner = !s.NoSign
		return ix, nil

	case spec.InitializeVendingMachine != nil:
		s := spec.InitializeVendingMachine
		mint, err := res.key(s.Mint)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		payer, err := res.key(s.Payer)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		ix, _, err := echo.NewInitializeVendingMachineInstruction(r.ProgramID, mint, payer, s.Price, s.BufferSize)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		if s.Buffer != "" {
			buffer, err := res.key(s.Buffer)
			if err != nil {
				return sealevel.Instruction{}, err
			}
			ix.Accounts[0].Pubkey = buffer
		}
		return ix, nil

	default:
		s := spec.Transfer
		from, err := res.key(s.From)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		to, err := res.key(s.To)
		if err != nil {
			return sealevel.Instruction{}, err
		}
		return sealevel.NewTransferInstruction(from, to, s.Lamports), nil
	}
}

func (r *Runner) globalCtx(sc *Scenario) (*global.GlobalCtx, error) {
	globalCtx := global.NewGlobalCtxDefault()

	gates := append([]features.FeatureGate{}, r.Features...)
	for _, name := range sc.Features {
		gate, ok := features.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, name)
		}
		gates = append(gates, gate)
	}

	for _, gate := range lo.Uniq(gates) {
		globalCtx.Features.EnableFeature(gate, 0)
	}
	return globalCtx, nil
}

func (r *Runner) ensureRent(sc *Scenario) error {
	if sc.Rent != nil {
		rent := sealevel.SysvarRent{
			LamportsPerUint8Year: sc.Rent.LamportsPerByteYear,
			ExemptionThreshold:   sc.Rent.ExemptionThreshold,
			BurnPercent:          sc.Rent.BurnPercent,
		}
		return sealevel.WriteRentSysvar(r.Store, rent)
	}

	_, err := sealevel.ReadRentSysvar(r.Store)
	if err == sealevel.InstrErrUnsupportedSysvar {
		return sealevel.WriteRentSysvar(r.Store, sealevel.DefaultRent())
	}
	return err
}

func matches(tx TxSpec, err error) bool {
	if tx.ExpectCode != nil && *tx.ExpectCode != sealevel.ErrorCode(err) {
		return false
	}
	if tx.ExpectError != "" {
		return err != nil && strings.Contains(err.Error(), tx.ExpectError)
	}
	if tx.ExpectCode == nil {
		return err == nil
	}
	return true
}

// Run executes every transaction of sc in order. Each transaction sees the
// accounts as left by the previous one; a failed transaction changes
// nothing. Final account states are written back to the store.
func (r *Runner) Run(sc *Scenario) (*Report, error) {
	res, err := r.resolveKeys(sc)
	if err != nil {
		return nil, err
	}

	globalCtx, err := r.globalCtx(sc)
	if err != nil {
		return nil, err
	}

	err = r.ensureRent(sc)
	if err != nil {
		return nil, err
	}

	state := make([]accounts.Account, 0, len(sc.Accounts)+2)
	state = append(state, sealevel.NewNativeProgramAccount(r.ProgramID), sealevel.NewNativeProgramAccount(sealevel.SystemProgramAddr))

	for _, spec := range sc.Accounts {
		stored, err := r.Store.GetAccount(res.keys[spec.Name])
		if err != nil {
			return nil, err
		}
		if stored != nil {
			klog.V(2).Infof("account %s (%s) loaded from store", spec.Name, stored.Key)
			state = append(state, *stored.Clone())
			continue
		}

		acct, err := r.buildAccount(res, spec)
		if err != nil {
			return nil, err
		}
		state = append(state, acct)
	}

	report := &Report{Name: sc.Name}

	for idx, txSpec := range sc.Transactions {
		name := txSpec.Name
		if name == "" {
			name = fmt.Sprintf("tx %d", idx)
		}

		instrs := make([]sealevel.Instruction, 0, len(txSpec.Instructions))
		for instrIdx, instrSpec := range txSpec.Instructions {
			ix, err := r.buildInstruction(res, instrSpec)
			if err != nil {
				return nil, fmt.Errorf("%s instruction %d: %w", name, instrIdx, err)
			}
			instrs = append(instrs, ix)
		}

		var log sealevel.LogRecorder
		execCtx := sealevel.NewExecutionCtx(state, r.Store, *globalCtx, &log)
		failedIdx, txErr := execCtx.ProcessTransaction(instrs)

		result := TxResult{
			Name:              name,
			Logs:              log.Logs,
			Err:               txErr,
			Code:              sealevel.ErrorCode(txErr),
			FailedInstruction: -1,
			ComputeUnits:      execCtx.ComputeMeter.Used(),
			Matched:           matches(txSpec, txErr),
		}
		if txErr != nil {
			result.FailedInstruction = failedIdx
		}

		txAccts := execCtx.TransactionContext.Accounts
		touched := lo.Filter(txAccts.Accounts, func(_ *accounts.Account, idx int) bool { return txAccts.Touched[idx] })
		if len(touched) != 0 {
			result.DeltaHash = accounts.DeltaHash(touched)
		}
		klog.V(1).Infof("%s: code %d, %d CUs", name, result.Code, result.ComputeUnits)
		report.Transactions = append(report.Transactions, result)

		state = lo.Map(execCtx.TransactionContext.Accounts.Accounts, func(acct *accounts.Account, _ int) accounts.Account {
			return *acct.Clone()
		})
	}

	for _, acct := range state[2:] {
		clone := acct.Clone()
		err = r.Store.SetAccount(clone.Key, clone)
		if err != nil {
			return nil, err
		}
	}

	report.Accounts = lo.Map(sc.Accounts, func(spec AccountSpec, idx int) AccountState {
		acct := state[idx+2]
		return AccountState{Name: spec.Name, Account: acct, Hash: acct.Hash()}
	})

	return report, nil
}
