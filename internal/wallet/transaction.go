package wallet

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/google/uuid"
)

// Input states the sender's whole balance and signs the outputs.
type Input struct {
	Timestamp time.Time `json:"timestamp"`
	Amount    uint64    `json:"amount"`
	Address   string    `json:"address"`
	Signature string    `json:"signature"`
}

// Output credits amount to address.
type Output struct {
	Amount  uint64 `json:"amount"`
	Address string `json:"address"`
}

// Transaction redistributes the sender's balance across outputs, change included.
type Transaction struct {
	ID      string   `json:"id"`
	Input   *Input   `json:"input"`
	Outputs []Output `json:"outputs"`
}

// signer is what a transaction needs from its sender.
type signer interface {
	PublicKey() string
	Balance() uint64
	Sign(hash []byte) string
}

// NewTransaction moves amount from sender to recipient, returning the rest to sender.
func NewTransaction(sender signer, recipient string, amount uint64, now time.Time) (*Transaction, error) {
	balance := sender.Balance()
	if amount > balance {
		return nil, fmt.Errorf("%w: amount %d, balance %d", ErrAmountExceedsBalance, amount, balance)
	}

	tx := &Transaction{
		ID: uuid.NewString(),
		Outputs: []Output{
			{Amount: balance - amount, Address: sender.PublicKey()},
			{Amount: amount, Address: recipient},
		},
	}
	tx.sign(sender, balance, now)
	return tx, nil
}

// NewRewardTransaction pays reward to minerAddress from a one-off blockchain wallet.
func NewRewardTransaction(minerAddress string, reward uint64, now time.Time) (*Transaction, error) {
	blockchain, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	tx := &Transaction{
		ID:      uuid.NewString(),
		Outputs: []Output{{Amount: reward, Address: minerAddress}},
	}
	tx.sign(fixedBalance{KeyPair: blockchain, balance: reward}, reward, now)
	return tx, nil
}

// Update adds another recipient output, paid out of the sender's change, and re-signs.
func (tx *Transaction) Update(sender signer, recipient string, amount uint64, now time.Time) error {
	if tx.Input == nil || tx.Input.Address != sender.PublicKey() {
		return fmt.Errorf("%w: %s is not sent by %s", ErrInvalidTransaction, tx.ID, sender.PublicKey())
	}

	change := -1
	for i := range tx.Outputs {
		if tx.Outputs[i].Address == sender.PublicKey() {
			change = i
			break
		}
	}
	if change < 0 {
		return fmt.Errorf("%w: %s has no change output", ErrInvalidTransaction, tx.ID)
	}
	if amount > tx.Outputs[change].Amount {
		return fmt.Errorf("%w: amount %d, remaining %d", ErrAmountExceedsBalance, amount, tx.Outputs[change].Amount)
	}

	tx.Outputs[change].Amount -= amount
	tx.Outputs = append(tx.Outputs, Output{Amount: amount, Address: recipient})
	tx.sign(sender, tx.Input.Amount, now)
	return nil
}

// Verify checks the input signature over the outputs hash.
func (tx *Transaction) Verify() bool {
	if tx.Input == nil {
		return false
	}
	return VerifySignature(tx.Input.Address, outputsHash(tx.Outputs), tx.Input.Signature)
}

// Valid reports whether outputs sum to the input amount and the signature verifies.
func (tx *Transaction) Valid() bool {
	if tx.Input == nil {
		return false
	}
	var total uint64
	for _, o := range tx.Outputs {
		if total+o.Amount < total {
			return false
		}
		total += o.Amount
	}
	return total == tx.Input.Amount && tx.Verify()
}

// Clone returns a deep copy.
func (tx *Transaction) Clone() *Transaction {
	out := &Transaction{ID: tx.ID, Outputs: append([]Output(nil), tx.Outputs...)}
	if tx.Input != nil {
		in := *tx.Input
		out.Input = &in
	}
	return out
}

// OutputFor returns the amount sent to address, zero if none.
func (tx *Transaction) OutputFor(address string) uint64 {
	var total uint64
	for _, o := range tx.Outputs {
		if o.Address == address {
			total += o.Amount
		}
	}
	return total
}

func (tx *Transaction) sign(sender signer, amount uint64, now time.Time) {
	tx.Input = &Input{
		Timestamp: now.UTC(),
		Amount:    amount,
		Address:   sender.PublicKey(),
		Signature: sender.Sign(outputsHash(tx.Outputs)),
	}
}

func outputsHash(outputs []Output) []byte {
	raw, err := json.Marshal(outputs)
	if err != nil {
		// []Output always marshals
		panic(err)
	}
	return chainhash.HashB(raw)
}

type fixedBalance struct {
	*KeyPair
	balance uint64
}

func (f fixedBalance) Balance() uint64 {
	return f.balance
}
