// Package generator produces a deterministic demo dataset for seeding a
// development graph.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/nellermoe/storybridge-backend/internal/domain"
	"github.com/nellermoe/storybridge-backend/internal/service"
)

var firstNames = []string{
	"Amara", "Bennett", "Carmen", "Dmitri", "Elif", "Farid", "Greta",
	"Hiro", "Ines", "Jonas", "Kavya", "Liam", "Mireille", "Nadia",
	"Oskar", "Priya", "Quentin", "Rosa", "Soren", "Tomas",
}

var lastNames = []string{
	"Abara", "Birch", "Castellanos", "Duarte", "Eriksen", "Fontaine",
	"Gallo", "Haugen", "Ivanova", "Joshi", "Kaur", "Lindqvist",
	"Moreau", "Nakamura", "Okafor", "Petrov", "Quispe", "Rahman",
	"Sato", "Takacs",
}

var affiliations = []string{
	"Northside Writers Circle", "Harbor Press", "The Lantern Review",
	"Citywide Library Network", "Open Margins Collective",
}

var nationalities = []string{
	"Norwegian", "Japanese", "Nigerian", "Brazilian", "Indian",
	"French", "Mexican", "Turkish", "Polish", "Canadian",
}

var genders = []string{"female", "male", "nonbinary"}

var storyTitles = []string{
	"The Cartographer's Last Map",
	"Letters from the Flood Year",
	"A Season of Borrowed Names",
	"What the Harbor Keeps",
	"Notes on an Unfinished City",
	"The Quiet Part of the Orchard",
	"Three Winters in Translation",
	"The Archivist's Apprentice",
}

// Dataset is a generated demo graph ready for bulk seeding.
type Dataset struct {
	Users       []domain.User
	Connections []service.SeedConnection
	Stories     []domain.Story
}

// Generate builds a dataset of the requested size. The same seed always
// yields the same names, edges, and story assignments; identifiers are
// fresh on every run.
func Generate(seed int64, userCount, storyCount int) Dataset {
	rng := rand.New(rand.NewSource(seed))
	if userCount <= 0 {
		userCount = 20
	}
	if storyCount <= 0 {
		storyCount = 8
	}
	if storyCount > len(storyTitles) {
		storyCount = len(storyTitles)
	}

	now := time.Now().UTC()
	ds := Dataset{}

	seenNames := make(map[string]struct{}, userCount)
	for len(ds.Users) < userCount {
		name := fmt.Sprintf("%s %s",
			firstNames[rng.Intn(len(firstNames))],
			lastNames[rng.Intn(len(lastNames))],
		)
		if _, dup := seenNames[name]; dup {
			continue
		}
		seenNames[name] = struct{}{}

		ds.Users = append(ds.Users, domain.User{
			ID:          uuid.NewString(),
			Name:        name,
			Bio:         fmt.Sprintf("%s writes and shares stories across the network.", name),
			Affiliation: affiliations[rng.Intn(len(affiliations))],
			Nationality: nationalities[rng.Intn(len(nationalities))],
			Gender:      genders[rng.Intn(len(genders))],
			CreatedAt:   now,
			Active:      true,
		})
	}

	// A sparse acquaintance graph: every user knows two or three others,
	// skewed toward nearby indices so clusters form.
	seenPairs := make(map[string]struct{})
	for i, user := range ds.Users {
		degree := 2 + rng.Intn(2)
		for d := 0; d < degree; d++ {
			j := (i + 1 + rng.Intn(4)) % len(ds.Users)
			if j == i {
				continue
			}
			key := pairKey(user.ID, ds.Users[j].ID)
			if _, dup := seenPairs[key]; dup {
				continue
			}
			seenPairs[key] = struct{}{}
			ds.Connections = append(ds.Connections, service.SeedConnection{
				FromID: user.ID,
				ToID:   ds.Users[j].ID,
				Kind:   domain.ConnectionKnows,
			})
		}
	}

	for i := 0; i < storyCount; i++ {
		author := ds.Users[rng.Intn(len(ds.Users))]
		ds.Stories = append(ds.Stories, domain.Story{
			ID:      uuid.NewString(),
			Title:   storyTitles[i],
			Content: fmt.Sprintf("%s — a story by %s.", storyTitles[i], author.Name),
			Author: domain.UserSummary{
				ID:   author.ID,
				Name: author.Name,
			},
			CreatedAt: now,
		})
	}

	return ds
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
