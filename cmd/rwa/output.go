package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/alfredjeanlab/rwa/internal/events"
	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/rpc"
	"github.com/alfredjeanlab/rwa/internal/stellar"
	"github.com/alfredjeanlab/rwa/internal/ui"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printSession(w io.Writer, s *model.Session) {
	fmt.Fprintf(w, "Session:    %s\n", s.ID)
	fmt.Fprintf(w, "State:      %s\n", ui.RenderState(string(s.State)))
	if s.Address != "" {
		fmt.Fprintf(w, "Address:    %s\n", ui.RenderAccent(s.Address))
	}
	fmt.Fprintf(w, "Network:    %s\n", s.Network.DisplayName())
	if s.LastError != "" {
		fmt.Fprintf(w, "Last error: %s\n", ui.RenderFail(s.LastError))
	}
	if !s.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated:    %s\n", ui.RenderMuted(s.UpdatedAt.Local().Format(timeLayout)))
	}
}

func yesNo(b bool) string {
	if b {
		return ui.RenderOK("yes")
	}
	return ui.RenderFail("no")
}

func printCompliance(w io.Writer, c *rpc.ComplianceResponse) {
	fmt.Fprintf(w, "Address:     %s\n", c.Snapshot.Address)
	fmt.Fprintf(w, "Whitelisted: %s\n", yesNo(c.Snapshot.IsWhitelisted))
	fmt.Fprintf(w, "KYC:         %s\n", yesNo(c.Snapshot.KYCVerified))
	fmt.Fprintf(w, "Balance:     %s\n", c.Balance)
	if !c.Snapshot.FetchedAt.IsZero() {
		fmt.Fprintf(w, "Fetched:     %s\n", ui.RenderMuted(c.Snapshot.FetchedAt.Local().Format(timeLayout)))
	}
}

func printPreview(w io.Writer, p *rpc.Preview) {
	fmt.Fprintf(w, "Verdict:   %s\n", ui.RenderVerdict(p.Allowed, string(p.Reason)))
	fmt.Fprintf(w, "           %s\n", p.Message)
	fmt.Fprintf(w, "From:      %s\n", p.Sender)
	fmt.Fprintf(w, "To:        %s\n", p.Recipient)
	fmt.Fprintf(w, "Amount:    %s\n", p.Amount)
	fmt.Fprintf(w, "Fee:       %s\n", p.EstimatedFee)
	if p.RecipientWhitelisted != nil {
		fmt.Fprintf(w, "Recipient: whitelisted %s\n", yesNo(*p.RecipientWhitelisted))
	}
}

func printTransferResult(w io.Writer, r *rpc.TransferResponse) {
	t := r.Transfer
	switch t.Status {
	case model.TransferSubmitted:
		fmt.Fprintf(w, "%s %s to %s\n", ui.RenderOK("submitted"), r.Amount, t.Recipient)
		fmt.Fprintf(w, "  tx: %s\n", t.TxHash)
	case model.TransferRejected:
		fmt.Fprintf(w, "%s %s\n", ui.RenderVerdict(false, string(t.Reason)), r.Message)
	default:
		fmt.Fprintf(w, "%s %s\n", ui.RenderFail(string(t.Status)), t.Error)
	}
	fmt.Fprintf(w, "  id: %s\n", ui.RenderMuted(t.ID))
}

func printTransfers(w io.Writer, ts []*model.Transfer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSTATUS\tAMOUNT\tRECIPIENT\tREASON")
	for _, t := range ts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.CreatedAt.Local().Format(timeLayout), t.Status,
			stellar.FormatAmount(t.Amount), shortAddress(t.Recipient), t.Reason)
	}
	return tw.Flush()
}

func printEvents(w io.Writer, evts []*model.Event) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tTOPIC\tSESSION\tADDRESS")
	for _, e := range evts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.CreatedAt.Local().Format(timeLayout), e.Topic, e.SessionID, shortAddress(e.Address))
	}
	return tw.Flush()
}

// printEventLine prints one live bus event for rwa watch. NATS payloads do
// not carry their subject, so the line leads with the session and address.
func printEventLine(w io.Writer, at time.Time, data []byte) {
	var meta events.Meta
	_ = json.Unmarshal(data, &meta)
	label := meta.SessionID
	if meta.Address != "" {
		label += " " + shortAddress(meta.Address)
	}
	fmt.Fprintf(w, "%s %s %s\n", ui.RenderMuted(at.Local().Format(timeLayout)), ui.RenderAccent(label), data)
}

// printSessionChange prints one line describing a polled session change.
func printSessionChange(w io.Writer, s *model.Session) {
	line := fmt.Sprintf("%s %s", ui.RenderMuted(s.UpdatedAt.Local().Format(timeLayout)), ui.RenderState(string(s.State)))
	if s.Address != "" {
		line += " " + ui.RenderAccent(s.Address)
	}
	line += " " + s.Network.DisplayName()
	if s.LastError != "" {
		line += " " + ui.RenderFail(s.LastError)
	}
	fmt.Fprintln(w, line)
}

// shortAddress abbreviates a 56-character account address as GABC...WXYZ.
func shortAddress(a string) string {
	if len(a) <= 12 {
		return a
	}
	return a[:4] + "..." + a[len(a)-4:]
}
