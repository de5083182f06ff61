package gate

import (
	"testing"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/stellar"
)

const (
	sender    = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"
	recipient = "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"
)

func connectedSession(addr string) model.Session {
	s := model.NewSession("ses-1")
	s.State = model.StateConnected
	s.Connected = true
	s.Address = addr
	return s
}

func snapshot(addr string, whitelisted bool, balance int64) *model.ComplianceSnapshot {
	return &model.ComplianceSnapshot{Address: addr, IsWhitelisted: whitelisted, KYCVerified: whitelisted, Balance: balance}
}

func request(amount int64) model.TransferRequest {
	return model.TransferRequest{Sender: sender, Recipient: recipient, Amount: amount}
}

func TestAuthorize_Scenarios(t *testing.T) {
	for _, tc := range []struct {
		name string
		sess model.Session
		snap *model.ComplianceSnapshot
		req  model.TransferRequest
		want model.Reason
	}{
		{"A disconnected", model.NewSession("ses-1"), snapshot(sender, true, 100), request(50), model.ReasonNotConnected},
		{"B allowed", connectedSession(sender), snapshot(sender, true, 100), request(50), model.ReasonOK},
		{"C over balance", connectedSession(sender), snapshot(sender, true, 100), request(150), model.ReasonInsufficientBalance},
		{"D not whitelisted", connectedSession(sender), snapshot(sender, false, 1000), request(1), model.ReasonNotWhitelisted},
		{"exact balance", connectedSession(sender), snapshot(sender, true, 100), request(100), model.ReasonOK},
		{"no snapshot", connectedSession(sender), nil, request(1), model.ReasonNotConnected},
		{"stale snapshot", connectedSession(sender), snapshot(recipient, true, 100), request(1), model.ReasonNotConnected},
		{"sender is not session", connectedSession(sender), snapshot(sender, true, 100),
			model.TransferRequest{Sender: recipient, Recipient: sender, Amount: 1}, model.ReasonNotConnected},
		{"invalid recipient", connectedSession(sender), snapshot(sender, true, 100),
			model.TransferRequest{Sender: sender, Recipient: "GNOTANADDRESS", Amount: 1}, model.ReasonInvalidRecipient},
		{"self transfer", connectedSession(sender), snapshot(sender, true, 100),
			model.TransferRequest{Sender: sender, Recipient: sender, Amount: 1}, model.ReasonInvalidRecipient},
		{"zero amount", connectedSession(sender), snapshot(sender, true, 100), request(0), model.ReasonZeroOrNegativeAmount},
		{"negative amount", connectedSession(sender), snapshot(sender, true, 100), request(-5), model.ReasonZeroOrNegativeAmount},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := Authorize(tc.sess, tc.snap, tc.req, stellar.ValidAddress)
			if v.Reason != tc.want {
				t.Errorf("reason = %s, want %s", v.Reason, tc.want)
			}
			if v.Allowed != (tc.want == model.ReasonOK) {
				t.Errorf("allowed = %v for reason %s", v.Allowed, v.Reason)
			}
		})
	}
}

func TestAuthorize_OrderingFirstFailureWins(t *testing.T) {
	// Every check fails; each row fixes the earlier ones in turn.
	bad := model.TransferRequest{Sender: sender, Recipient: "bogus", Amount: -1}
	for _, tc := range []struct {
		name string
		sess model.Session
		snap *model.ComplianceSnapshot
		req  model.TransferRequest
		want model.Reason
	}{
		{"not connected beats all", model.NewSession("ses-1"), snapshot(sender, false, 0), bad, model.ReasonNotConnected},
		{"whitelist beats recipient", connectedSession(sender), snapshot(sender, false, 0), bad, model.ReasonNotWhitelisted},
		{"recipient beats amount", connectedSession(sender), snapshot(sender, true, 0), bad, model.ReasonInvalidRecipient},
		{"amount beats balance", connectedSession(sender), snapshot(sender, true, 0),
			model.TransferRequest{Sender: sender, Recipient: recipient, Amount: -1}, model.ReasonZeroOrNegativeAmount},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.sess, tc.snap, tc.req, stellar.ValidAddress).Reason; got != tc.want {
				t.Errorf("reason = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAuthorize_DisconnectedAlwaysNotConnected(t *testing.T) {
	disconnected := model.NewSession("ses-1")
	validators := []AddressValidator{stellar.ValidAddress, func(string) bool { return true }, func(string) bool { return false }}
	for _, snap := range []*model.ComplianceSnapshot{nil, snapshot(sender, true, 1<<40), snapshot(sender, false, 0)} {
		for _, amount := range []int64{-1, 0, 1, 1 << 50} {
			for _, valid := range validators {
				req := request(amount)
				if got := Authorize(disconnected, snap, req, valid); got.Reason != model.ReasonNotConnected || got.Allowed {
					t.Fatalf("Authorize(disconnected, %+v, %+v) = %+v", snap, req, got)
				}
			}
		}
	}
}

func TestAuthorize_Monotonicity(t *testing.T) {
	sess := connectedSession(sender)
	for _, balance := range []int64{1, 100, 10_000_000, 1 << 40} {
		snap := snapshot(sender, true, balance)
		if v := Authorize(sess, snap, request(balance), stellar.ValidAddress); !v.Allowed {
			t.Fatalf("balance %d: full-balance transfer denied: %s", balance, v.Reason)
		}
		for _, over := range []int64{balance + 1, balance * 2, balance + 1<<20} {
			if v := Authorize(sess, snap, request(over), stellar.ValidAddress); v.Reason != model.ReasonInsufficientBalance {
				t.Errorf("balance %d amount %d: reason = %s, want INSUFFICIENT_BALANCE", balance, over, v.Reason)
			}
		}
	}
}

func TestAuthorize_DoesNotMutateInputs(t *testing.T) {
	sess := connectedSession(sender)
	snap := snapshot(sender, true, 100)
	before := *snap
	req := request(50)

	Authorize(sess, snap, req, stellar.ValidAddress)

	if *snap != before {
		t.Errorf("snapshot mutated: %+v -> %+v", before, *snap)
	}
}

func TestRecord_PassesVerdictThrough(t *testing.T) {
	v := model.Deny(model.ReasonNotWhitelisted)
	if got := Record(v); got != v {
		t.Errorf("Record = %+v, want %+v", got, v)
	}
}
