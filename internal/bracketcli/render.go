package bracketcli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/okian/seedline/internal/domain/model"
)

const (
	tabMinWidth = 0
	tabWidth    = 4
	tabPadding  = 2
)

func viewOf(b model.Bracket) BracketView {
	v := BracketView{Mode: b.Mode.String()}
	for _, t := range b.Seeds {
		v.Seeds = append(v.Seeds, seedView(t))
	}
	for _, t := range b.NextOut {
		v.NextOut = append(v.NextOut, seedView(t))
	}
	return v
}

func seedView(t model.Team) SeedView {
	v := SeedView{
		Seed:       t.Seed,
		ID:         t.ID,
		Name:       t.Name,
		Conference: t.Conference,
		Record:     t.Record,
		Score:      t.FairRankScore,
		AutoBid:    t.AutoBid,
	}
	if r, ok := t.Rank.Get(); ok {
		v.Rank = &r
	}
	return v
}

func renderText(w io.Writer, out Output) error {
	tw := tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "tables %s, %d teams, %d duplicates dropped\n", out.TablesVersion, out.Teams, out.Duplicates)
	if len(out.Failed) > 0 {
		fmt.Fprintf(tw, "failed sources: %v\n", out.Failed)
	}
	for _, b := range out.Brackets {
		fmt.Fprintf(tw, "\n%s bracket\n", b.Mode)
		fmt.Fprintln(tw, "SEED\tTEAM\tCONF\tRECORD\tRANK\tSCORE\tBID")
		for _, s := range b.Seeds {
			writeRow(tw, strconv.Itoa(s.Seed), s)
		}
		for _, s := range b.NextOut {
			writeRow(tw, "out", s)
		}
	}
	return tw.Flush()
}

func writeRow(w io.Writer, seed string, s SeedView) {
	rank, score, bid := "-", "-", ""
	if s.Rank != nil {
		rank = strconv.Itoa(*s.Rank)
	}
	if s.Score != nil {
		score = strconv.FormatFloat(*s.Score, 'f', 2, 64)
	}
	if s.AutoBid {
		bid = "auto"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", seed, s.Name, s.Conference, s.Record, rank, score, bid)
}
