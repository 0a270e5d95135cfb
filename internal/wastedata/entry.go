package wastedata

import (
	"strconv"
	"time"
)

// DateLayout is the format of WasteEntry.Date
const DateLayout = "2006-01-02"

// WasteEntry is one day of collection figures entered by an admin.
type WasteEntry struct {
	ID                    string    `json:"id"`
	Date                  string    `json:"date" validate:"required,datetime=2006-01-02"`
	PetAmount             float64   `json:"pet_amount" validate:"gte=0"`
	CardboardAmount       float64   `json:"cardboard_amount" validate:"gte=0"`
	CansAmount            float64   `json:"cans_amount" validate:"gte=0"`
	GlassAmount           float64   `json:"glass_amount" validate:"gte=0"`
	OtherAmount           float64   `json:"other_amount" validate:"gte=0"`
	ParticipationRate     float64   `json:"participation_rate" validate:"gte=0,lte=100"`
	MisclassificationRate float64   `json:"misclassification_rate" validate:"gte=0,lte=100"`
	CampaignReach         int       `json:"campaign_reach" validate:"gte=0"`
	Costs                 float64   `json:"costs" validate:"gte=0"`
	Notes                 string    `json:"notes,omitempty" validate:"max=2000"`
	CreatedAt             time.Time `json:"created_at"`
}

// Columns lists the exported fields in grid order.
var Columns = []string{
	"id",
	"date",
	"pet_amount",
	"cardboard_amount",
	"cans_amount",
	"glass_amount",
	"other_amount",
	"participation_rate",
	"misclassification_rate",
	"campaign_reach",
	"costs",
}

// Field returns the column value by its JSON name; unknown names yield "".
func (e WasteEntry) Field(name string) string {
	switch name {
	case "id":
		return e.ID
	case "date":
		return e.Date
	case "pet_amount":
		return formatAmount(e.PetAmount)
	case "cardboard_amount":
		return formatAmount(e.CardboardAmount)
	case "cans_amount":
		return formatAmount(e.CansAmount)
	case "glass_amount":
		return formatAmount(e.GlassAmount)
	case "other_amount":
		return formatAmount(e.OtherAmount)
	case "participation_rate":
		return formatAmount(e.ParticipationRate)
	case "misclassification_rate":
		return formatAmount(e.MisclassificationRate)
	case "campaign_reach":
		return strconv.Itoa(e.CampaignReach)
	case "costs":
		return formatAmount(e.Costs)
	case "notes":
		return e.Notes
	case "created_at":
		if e.CreatedAt.IsZero() {
			return ""
		}
		return e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return ""
}

// TotalWaste is the sum of all material amounts
func (e WasteEntry) TotalWaste() float64 {
	return e.PetAmount + e.CardboardAmount + e.CansAmount + e.GlassAmount + e.OtherAmount
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Summary aggregates a set of entries.
type Summary struct {
	Entries          int     `json:"entries"`
	PetAmount        float64 `json:"pet_amount"`
	CardboardAmount  float64 `json:"cardboard_amount"`
	CansAmount       float64 `json:"cans_amount"`
	GlassAmount      float64 `json:"glass_amount"`
	OtherAmount      float64 `json:"other_amount"`
	TotalWaste       float64 `json:"total_waste"`
	Costs            float64 `json:"costs"`
	CampaignReach    int     `json:"campaign_reach"`
	AvgParticipation float64 `json:"avg_participation_rate"`
	AvgMisclassified float64 `json:"avg_misclassification_rate"`
}

// Totals sums the material amounts and costs of entries and averages the rates.
func Totals(entries []WasteEntry) Summary {
	var s Summary
	for _, e := range entries {
		s.Entries++
		s.PetAmount += e.PetAmount
		s.CardboardAmount += e.CardboardAmount
		s.CansAmount += e.CansAmount
		s.GlassAmount += e.GlassAmount
		s.OtherAmount += e.OtherAmount
		s.TotalWaste += e.TotalWaste()
		s.Costs += e.Costs
		s.CampaignReach += e.CampaignReach
		s.AvgParticipation += e.ParticipationRate
		s.AvgMisclassified += e.MisclassificationRate
	}
	if s.Entries > 0 {
		s.AvgParticipation /= float64(s.Entries)
		s.AvgMisclassified /= float64(s.Entries)
	}
	return s
}
