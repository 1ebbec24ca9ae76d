package fixtures

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	panelModels "panel/models"
	panelUtils "panel/utils"
	"scoring/engine"
	"scoring/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Fixtures struct {
	db  *gorm.DB
	rng *rand.Rand
}

func NewFixtures(db *gorm.DB) *Fixtures {
	return &Fixtures{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateTestData creates demo courts, control panels and matches in
// various stages of play, including a finished one with full set scores.
func (f *Fixtures) GenerateTestData() error {
	log.Println("Starting fixtures generation...")

	courts, err := f.generateCourts()
	if err != nil {
		return fmt.Errorf("failed to generate courts: %w", err)
	}

	panels, err := f.generatePanels()
	if err != nil {
		return fmt.Errorf("failed to generate panels: %w", err)
	}

	matches, err := f.generateMatches(courts)
	if err != nil {
		return fmt.Errorf("failed to generate matches: %w", err)
	}

	log.Println("Fixtures generated successfully!")
	log.Printf("Created %d courts, %d panels and %d matches", len(courts), len(panels), len(matches))
	return nil
}

func (f *Fixtures) generateCourts() ([]models.Court, error) {
	names := []string{"Court 1", "Court 2", "Court 3", "Center Court"}

	courts := make([]models.Court, 0, len(names))
	for _, name := range names {
		court := models.Court{
			PublicID: uuid.New(),
			Name:     name,
			Active:   true,
		}
		if err := f.db.Create(&court).Error; err != nil {
			return nil, err
		}
		courts = append(courts, court)
	}
	return courts, nil
}

func (f *Fixtures) generatePanels() ([]panelModels.Panel, error) {
	definitions := []struct {
		name  string
		pin   string
		roles panelModels.Roles
	}{
		{"front-desk", "1234", panelModels.Roles{panelModels.RoleReferee, panelModels.RoleStaff}},
		{"court-1-panel", "1111", panelModels.Roles{panelModels.RoleReferee}},
		{"court-2-panel", "2222", panelModels.Roles{panelModels.RoleReferee}},
	}

	panels := make([]panelModels.Panel, 0, len(definitions))
	for _, def := range definitions {
		pinHash, err := panelUtils.HashPIN(def.pin)
		if err != nil {
			return nil, err
		}
		panel := panelModels.Panel{
			Name:    def.name,
			PINHash: pinHash,
			Enabled: true,
			Roles:   def.roles,
		}
		if err := f.db.Create(&panel).Error; err != nil {
			return nil, err
		}
		panels = append(panels, panel)
	}
	return panels, nil
}

func (f *Fixtures) generateMatches(courts []models.Court) ([]models.Match, error) {
	if len(courts) < 3 {
		return nil, fmt.Errorf("need at least 3 courts, got %d", len(courts))
	}

	pairs := [][2][]string{
		{{"Ana", "Lucia"}, {"Marta", "Ines"}},
		{{"Pablo", "Diego"}, {"Javi", "Carlos"}},
		{{"Sofia", "Elena"}, {"Carmen", "Laura"}},
	}
	policies := []string{"traditional", "golden_point", "silver_point"}

	// One match mid-play per court, the last one played to completion.
	matches := make([]models.Match, 0, len(pairs))
	for i, pair := range pairs {
		match := models.Match{
			PublicID:     uuid.New(),
			CourtID:      courts[i].ID,
			DeucePolicy:  policies[i],
			SetsToWin:    2,
			TiebreakAt:   6,
			TeamAPlayers: pair[0],
			TeamBPlayers: pair[1],
			CurrentSet:   1,
			Status:       string(engine.StatusSetup),
		}

		st := match.ToEngineState()
		server := engine.TeamA
		if f.rng.Intn(2) == 1 {
			server = engine.TeamB
		}
		st.Serving = &server

		points := 15 + f.rng.Intn(30)
		if i == len(pairs)-1 {
			points = 600
		}
		st = f.playPoints(st, points)

		match.ApplyEngineState(st)
		if err := f.db.Create(&match).Error; err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// playPoints drives the engine with random point events until the point
// count is reached or the match completes.
func (f *Fixtures) playPoints(st engine.State, points int) engine.State {
	now := time.Now().Add(-time.Duration(points) * 40 * time.Second)
	for i := 0; i < points && !st.Status.Terminal(); i++ {
		team := engine.TeamA
		if f.rng.Intn(2) == 1 {
			team = engine.TeamB
		}
		st, _ = engine.Apply(st, engine.PointFor(team), now)
		now = now.Add(40 * time.Second)
	}
	return st
}

// ClearAllData removes all fixture data from the database
func (f *Fixtures) ClearAllData() error {
	log.Println("Clearing all fixture data...")

	tables := []string{
		"undo_entries",
		"matches",
		"courts",
		"session_tokens",
		"panels",
	}

	for _, table := range tables {
		if err := f.db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	log.Println("All fixture data cleared!")
	return nil
}
