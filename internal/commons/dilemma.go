package commons

import "fmt"

type Choice string

const (
	Cooperate Choice = "cooperate"
	Defect    Choice = "defect"
)

type Strategy string

const (
	StrategyRandom      Strategy = "random"
	StrategyRational    Strategy = "rational"
	StrategyCooperative Strategy = "cooperative"
)

func ParseChoice(raw string) (Choice, error) {
	switch Choice(raw) {
	case Cooperate, Defect:
		return Choice(raw), nil
	}
	return "", fmt.Errorf("choice must be %q or %q", Cooperate, Defect)
}

func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(raw) {
	case StrategyRandom, StrategyRational, StrategyCooperative:
		return Strategy(raw), nil
	}
	return "", fmt.Errorf("unknown partner strategy %q", raw)
}

// PartnerChoice picks the partner's move. roll returns an integer in [0, 10];
// a random partner cooperates when it rolls above 5.
func PartnerChoice(strategy Strategy, roll func() int) Choice {
	switch strategy {
	case StrategyRational:
		return Defect
	case StrategyCooperative:
		return Cooperate
	}
	if roll != nil && roll() > 5 {
		return Cooperate
	}
	return Defect
}

// Matrix cells, rows are the partner's move and columns are yours.
const (
	CellBothCooperate = "ul"
	CellYouDefect     = "ur"
	CellPartnerDefect = "ll"
	CellBothDefect    = "lr"
)

type DilemmaOutcome struct {
	You          Choice `json:"you"`
	Partner      Choice `json:"partner"`
	Cell         string `json:"cell"`
	YourYears    int    `json:"your_years"`
	PartnerYears int    `json:"partner_years"`
}

func OutcomeCell(you, partner Choice) string {
	switch {
	case you == Cooperate && partner == Cooperate:
		return CellBothCooperate
	case you == Defect && partner == Cooperate:
		return CellYouDefect
	case you == Cooperate && partner == Defect:
		return CellPartnerDefect
	}
	return CellBothDefect
}

// JailTerms are the sentences of the hold out / confess story.
func JailTerms(you, partner Choice) (yours, partners int) {
	switch OutcomeCell(you, partner) {
	case CellBothCooperate:
		return 1, 1
	case CellYouDefect:
		return 0, 4
	case CellPartnerDefect:
		return 4, 0
	}
	return 2, 2
}

func PlayDilemma(you, partner Choice) DilemmaOutcome {
	yours, partners := JailTerms(you, partner)
	return DilemmaOutcome{
		You:          you,
		Partner:      partner,
		Cell:         OutcomeCell(you, partner),
		YourYears:    yours,
		PartnerYears: partners,
	}
}

// ClassicMatrix labels the variant-two board as "row,column" sentences.
var ClassicMatrix = map[string]string{
	CellBothCooperate: "2,2",
	CellYouDefect:     "10,0",
	CellPartnerDefect: "0,10",
	CellBothDefect:    "5,5",
}
