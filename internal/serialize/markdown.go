// Package serialize renders and parses the entity's sub-states as the
// stable markdown the workspace persists to disk (§4.x "serialization
// to markdown"). Status, language, memory, milestones, form and
// perception each have a Parse*Md that accepts its Format*Md output,
// satisfying the round-trip law for those twins. Seed, dynamics,
// reversal and coexist markdown is render-only: there is no parser.
package serialize

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yadori/yadori/internal/dynamics"
	"github.com/yadori/yadori/internal/form"
	"github.com/yadori/yadori/internal/growth"
	"github.com/yadori/yadori/internal/language"
	"github.com/yadori/yadori/internal/memory"
	"github.com/yadori/yadori/internal/perception"
	"github.com/yadori/yadori/internal/seed"
	"github.com/yadori/yadori/internal/status"
)

func bulletBool(label string, v bool) string {
	return fmt.Sprintf("- **%s:** %t\n", label, v)
}

func bulletInt(label string, v int) string {
	return fmt.Sprintf("- **%s:** %d\n", label, v)
}

func bulletStr(label string, v string) string {
	return fmt.Sprintf("- **%s:** %s\n", label, v)
}

func scanBullets(md string) map[string]string {
	out := map[string]string{}
	sc := bufio.NewScanner(strings.NewReader(md))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "- **") {
			continue
		}
		line = strings.TrimPrefix(line, "- **")
		parts := strings.SplitN(line, ":**", 2)
		if len(parts) != 2 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// FormatSeedMd renders the immutable seed. SEED.md is the one
// workspace artifact that, per §3, must never change after genesis;
// there is deliberately no ParseSeedMd that round-trips it back into a
// seed.Seed — collaborators load the seed from state.json and treat
// SEED.md as the human-readable, write-once twin.
func FormatSeedMd(s seed.Seed) string {
	var b strings.Builder
	b.WriteString("## Seed\n\n")
	b.WriteString(bulletStr("Perception", string(s.Perception)))
	b.WriteString(bulletStr("Expression", s.Expression))
	b.WriteString(bulletStr("Cognition", s.Cognition))
	b.WriteString(bulletStr("Temperament", string(s.Temperament)))
	b.WriteString(bulletStr("Form", string(s.Form)))
	fmt.Fprintf(&b, "- **Sub Traits:** %d %d %d %d %d\n", s.SubTraits[0], s.SubTraits[1], s.SubTraits[2], s.SubTraits[3], s.SubTraits[4])
	b.WriteString(bulletStr("Platform", s.HardwareBody.Platform))
	b.WriteString(bulletStr("Arch", s.HardwareBody.Arch))
	b.WriteString(bulletInt("Memory GB", s.HardwareBody.MemoryGB))
	b.WriteString(bulletStr("CPU Model", s.HardwareBody.CPUModel))
	b.WriteString(bulletInt("Storage GB", s.HardwareBody.StorageGB))
	b.WriteString(bulletStr("Created At", s.CreatedAt.UTC().Format(time.RFC3339)))
	b.WriteString(bulletStr("Hash", s.Hash))
	return b.String()
}

// FormatStatusMd renders the status sub-state.
func FormatStatusMd(s status.Status) string {
	var b strings.Builder
	b.WriteString("## Status\n\n")
	b.WriteString(bulletInt("Mood", s.Mood))
	b.WriteString(bulletInt("Energy", s.Energy))
	b.WriteString(bulletInt("Curiosity", s.Curiosity))
	b.WriteString(bulletInt("Comfort", s.Comfort))
	b.WriteString(bulletInt("Language Level", s.LanguageLevel))
	b.WriteString(bulletInt("Perception Level", s.PerceptionLevel))
	b.WriteString(bulletInt("Growth Day", s.GrowthDay))
	if s.LastInteraction != nil {
		b.WriteString(bulletStr("Last Interaction", s.LastInteraction.UTC().Format(time.RFC3339)))
	} else {
		b.WriteString(bulletStr("Last Interaction", "never"))
	}
	return b.String()
}

// ParseStatusMd accepts FormatStatusMd's own output.
func ParseStatusMd(md string) status.Status {
	f := scanBullets(md)
	s := status.Status{
		Mood:            atoi(f["Mood"]),
		Energy:          atoi(f["Energy"]),
		Curiosity:       atoi(f["Curiosity"]),
		Comfort:         atoi(f["Comfort"]),
		LanguageLevel:   atoi(f["Language Level"]),
		PerceptionLevel: atoi(f["Perception Level"]),
		GrowthDay:       atoi(f["Growth Day"]),
	}
	if ts, err := time.Parse(time.RFC3339, f["Last Interaction"]); err == nil {
		s.LastInteraction = &ts
	}
	return s
}

// FormatLanguageMd renders the language sub-state.
func FormatLanguageMd(l language.State) string {
	var b strings.Builder
	b.WriteString("## Language\n\n")
	b.WriteString(bulletInt("Level", l.Level))
	b.WriteString(fmt.Sprintf("- **Total Interactions:** %d\n", l.TotalInteractions))
	b.WriteString(bulletStr("Native Symbols", strings.Join(l.NativeSymbols, " ")))
	b.WriteString("\n### Patterns\n\n")
	for _, p := range l.Patterns {
		fmt.Fprintf(&b, "- `%s` = %s (day %d, used %d)\n", p.Symbol, p.Meaning, p.EstablishedDay, p.UsageCount)
	}
	return b.String()
}

// ParseLanguageMd accepts FormatLanguageMd's own output.
func ParseLanguageMd(md string) language.State {
	f := scanBullets(md)
	l := language.State{
		Level:             atoi(f["Level"]),
		TotalInteractions: uint64(atoi(f["Total Interactions"])),
	}
	if sym := f["Native Symbols"]; sym != "" {
		l.NativeSymbols = strings.Fields(sym)
	}

	sc := bufio.NewScanner(strings.NewReader(md))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "- `") {
			continue
		}
		rest := strings.TrimPrefix(line, "- `")
		symEnd := strings.Index(rest, "`")
		if symEnd < 0 {
			continue
		}
		symbol := rest[:symEnd]
		rest = strings.TrimPrefix(rest[symEnd+1:], " = ")
		dayIdx := strings.LastIndex(rest, "(day ")
		if dayIdx < 0 {
			continue
		}
		meaning := strings.TrimSpace(rest[:dayIdx])
		inner := strings.TrimSuffix(strings.TrimPrefix(rest[dayIdx:], "(day "), ")\n")
		inner = strings.TrimSuffix(inner, ")")
		fields := strings.SplitN(inner, ", used ", 2)
		day := atoi(fields[0])
		used := 0
		if len(fields) == 2 {
			used = atoi(fields[1])
		}
		l.Patterns = append(l.Patterns, language.Pattern{
			Symbol: symbol, Meaning: meaning, EstablishedDay: day, UsageCount: used,
		})
	}
	return l
}

// FormatMemoryMd renders the memory sub-state.
func FormatMemoryMd(m memory.State) string {
	var b strings.Builder
	b.WriteString("## Memory\n\n")
	b.WriteString("### Hot\n\n")
	for _, e := range m.Hot {
		fmt.Fprintf(&b, "- [%s] mood %d: %s\n", e.Timestamp.UTC().Format(time.RFC3339), e.Mood, e.Summary)
	}
	b.WriteString("\n### Warm\n\n")
	for _, w := range m.Warm {
		fmt.Fprintf(&b, "- %s: entries=%d avg_mood=%d %s\n", w.WeekID, w.Entries, w.AvgMood, w.Summary)
	}
	b.WriteString("\n### Cold\n\n")
	for _, c := range m.Cold {
		fmt.Fprintf(&b, "- %s: weeks=%d avg_mood=%d %s\n", c.MonthID, c.Weeks, c.AvgMood, c.Summary)
	}
	b.WriteString("\n### Notes\n\n")
	for _, n := range m.Notes {
		fmt.Fprintf(&b, "- %s\n", n)
	}
	return b.String()
}

// ParseMemoryMd accepts FormatMemoryMd's own output (modulo whitespace).
func ParseMemoryMd(md string) memory.State {
	var s memory.State
	section := ""
	sc := bufio.NewScanner(strings.NewReader(md))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "### Hot":
			section = "hot"
			continue
		case "### Warm":
			section = "warm"
			continue
		case "### Cold":
			section = "cold"
			continue
		case "### Notes":
			section = "notes"
			continue
		}
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		body := strings.TrimPrefix(line, "- ")
		switch section {
		case "hot":
			s.Hot = append(s.Hot, parseHotLine(body))
		case "warm":
			s.Warm = append(s.Warm, parseWarmLine(body))
		case "cold":
			s.Cold = append(s.Cold, parseColdLine(body))
		case "notes":
			s.Notes = append(s.Notes, body)
		}
	}
	return s
}

func parseHotLine(body string) memory.Entry {
	// "[RFC3339] mood N: summary"
	end := strings.Index(body, "]")
	ts, _ := time.Parse(time.RFC3339, strings.TrimPrefix(body[:end], "["))
	rest := strings.TrimPrefix(body[end+1:], " mood ")
	colon := strings.Index(rest, ":")
	mood := atoi(rest[:colon])
	summary := strings.TrimSpace(rest[colon+1:])
	return memory.Entry{Timestamp: ts, Mood: mood, Summary: summary}
}

func parseWarmLine(body string) memory.WeeklySummary {
	// "week_id: entries=N avg_mood=N summary"
	colon := strings.Index(body, ":")
	weekID := body[:colon]
	rest := strings.TrimSpace(body[colon+1:])
	fields := strings.SplitN(rest, " ", 3)
	entries := atoi(strings.TrimPrefix(fields[0], "entries="))
	avgMood := 0
	summary := ""
	if len(fields) >= 2 {
		avgMood = atoi(strings.TrimPrefix(fields[1], "avg_mood="))
	}
	if len(fields) == 3 {
		summary = fields[2]
	}
	return memory.WeeklySummary{WeekID: weekID, Entries: entries, AvgMood: avgMood, Summary: summary}
}

func parseColdLine(body string) memory.MonthlySummary {
	colon := strings.Index(body, ":")
	monthID := body[:colon]
	rest := strings.TrimSpace(body[colon+1:])
	fields := strings.SplitN(rest, " ", 3)
	weeks := atoi(strings.TrimPrefix(fields[0], "weeks="))
	avgMood := 0
	summary := ""
	if len(fields) >= 2 {
		avgMood = atoi(strings.TrimPrefix(fields[1], "avg_mood="))
	}
	if len(fields) == 3 {
		summary = fields[2]
	}
	return memory.MonthlySummary{MonthID: monthID, Weeks: weeks, AvgMood: avgMood, Summary: summary}
}

// FormatMilestonesMd renders the growth milestone ledger.
func FormatMilestonesMd(g growth.State) string {
	var b strings.Builder
	b.WriteString("## Milestones\n\n")
	b.WriteString(bulletStr("Stage", string(g.Stage)))
	b.WriteString("\n")
	for _, m := range g.Milestones {
		fmt.Fprintf(&b, "- `%s` %s (day %d, %s)\n", m.ID, m.Label, m.AchievedDay, m.AchievedAt.UTC().Format(time.RFC3339))
	}
	return b.String()
}

// ParseMilestonesMd accepts FormatMilestonesMd's own output.
func ParseMilestonesMd(md string) growth.State {
	f := scanBullets(md)
	g := growth.State{Stage: growth.Stage(f["Stage"])}

	sc := bufio.NewScanner(strings.NewReader(md))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "- `") {
			continue
		}
		rest := strings.TrimPrefix(line, "- `")
		idEnd := strings.Index(rest, "`")
		if idEnd < 0 {
			continue
		}
		id := rest[:idEnd]
		rest = strings.TrimSpace(rest[idEnd+1:])
		dayIdx := strings.LastIndex(rest, "(day ")
		if dayIdx < 0 {
			continue
		}
		label := strings.TrimSpace(rest[:dayIdx])
		inner := strings.TrimSuffix(strings.TrimPrefix(rest[dayIdx:], "(day "), ")")
		fields := strings.SplitN(inner, ", ", 2)
		day := atoi(fields[0])
		var at time.Time
		if len(fields) == 2 {
			at, _ = time.Parse(time.RFC3339, fields[1])
		}
		g.Milestones = append(g.Milestones, growth.Milestone{ID: id, Label: label, AchievedDay: day, AchievedAt: at})
	}
	return g
}

// FormatFormMd renders the form sub-state.
func FormatFormMd(f form.State) string {
	var b strings.Builder
	b.WriteString("## Form\n\n")
	b.WriteString(bulletStr("Base Form", string(f.BaseForm)))
	b.WriteString(bulletInt("Density", f.Density))
	b.WriteString(bulletInt("Complexity", f.Complexity))
	b.WriteString(bulletInt("Stability", f.Stability))
	b.WriteString(bulletBool("Awareness", f.Awareness))
	return b.String()
}

// ParseFormMd accepts FormatFormMd's own output.
func ParseFormMd(md string) form.State {
	f := scanBullets(md)
	return form.State{
		BaseForm:   seed.Form(f["Base Form"]),
		Density:    atoi(f["Density"]),
		Complexity: atoi(f["Complexity"]),
		Stability:  atoi(f["Stability"]),
		Awareness:  f["Awareness"] == "true",
	}
}

// FormatPerceptionMd renders the perception growth sub-state.
func FormatPerceptionMd(p perception.Growth) string {
	var b strings.Builder
	b.WriteString("## Perception\n\n")
	b.WriteString(bulletInt("Level", p.Level))
	fmt.Fprintf(&b, "- **Total Sensory Inputs:** %d\n", p.TotalSensoryInputs)
	fmt.Fprintf(&b, "- **Modalities Encountered:** %d\n", p.ModalitiesEncountered)
	return b.String()
}

// ParsePerceptionMd accepts FormatPerceptionMd's own output.
func ParsePerceptionMd(md string) perception.Growth {
	f := scanBullets(md)
	return perception.Growth{
		Level:                 atoi(f["Level"]),
		TotalSensoryInputs:    uint64(atoi(f["Total Sensory Inputs"])),
		ModalitiesEncountered: uint32(atoi(f["Modalities Encountered"])),
	}
}

// FormatDynamicsMd renders the asymmetry sub-state.
func FormatDynamicsMd(a dynamics.AsymmetryState) string {
	var b strings.Builder
	b.WriteString("## Dynamics\n\n")
	b.WriteString(bulletStr("Phase", string(a.Phase)))
	fmt.Fprintf(&b, "- **Score:** %.1f\n", a.Score)
	fmt.Fprintf(&b, "- **Confidence:** %.1f\n", a.Confidence)
	b.WriteString("\n### Transitions\n\n")
	for _, t := range a.Transitions {
		fmt.Fprintf(&b, "- %s -> %s at %s (score %.1f)\n", t.From, t.To, t.Timestamp.UTC().Format(time.RFC3339), t.Score)
	}
	return b.String()
}

// FormatReversalMd renders the reversal sub-state.
func FormatReversalMd(r dynamics.ReversalState) string {
	var b strings.Builder
	b.WriteString("## Reversals\n\n")
	fmt.Fprintf(&b, "- **Total Reversals:** %d\n", r.TotalReversals)
	if r.DominantType != nil {
		b.WriteString(bulletStr("Dominant Type", string(*r.DominantType)))
	}
	fmt.Fprintf(&b, "- **Reversal Rate:** %.2f\n", r.ReversalRate)
	b.WriteString("\n### Signals\n\n")
	for _, s := range r.Signals {
		fmt.Fprintf(&b, "- [%s] %s (strength %.0f): %s\n", s.Timestamp.UTC().Format(time.RFC3339), s.Type, s.Strength, s.Description)
	}
	return b.String()
}

// FormatCoexistMd renders the coexist sub-state.
func FormatCoexistMd(c dynamics.CoexistState) string {
	var b strings.Builder
	b.WriteString("## Coexist\n\n")
	b.WriteString(bulletBool("Active", c.Active))
	fmt.Fprintf(&b, "- **Quality:** %.0f\n", c.Quality)
	fmt.Fprintf(&b, "- **Days In Epsilon:** %d\n", c.DaysInEpsilon)
	b.WriteString("\n### Moments\n\n")
	for _, m := range c.Moments {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", m.Timestamp.UTC().Format(time.RFC3339), m.Type, m.Description)
	}
	return b.String()
}
