package scheduler

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func randomTables(rng *rand.Rand) []domain.TableID {
	var out []domain.TableID
	for _, t := range domain.AllTables {
		if rng.Intn(2) == 1 {
			out = append(out, t)
		}
	}
	return out
}

// TestExpand_Invariants_ChildInclusion property-tests that every row in a
// table is either tagged for it or carries a child tagged for it, and that
// indexes are contiguous from 1.
func TestExpand_Invariants_ChildInclusion(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		var stages []domain.WorkStage
		byID := map[string]domain.WorkStage{}

		parents := rng.Intn(6) + 1
		for p := 0; p < parents; p++ {
			pid := fmt.Sprintf("p%d", p)
			parent := topStage(pid, float64(rng.Intn(10)), randomTables(rng)...)
			stages = append(stages, parent)
			byID[pid] = parent

			kids := rng.Intn(4)
			for c := 0; c < kids; c++ {
				cid := fmt.Sprintf("%s.%d", pid, c)
				child := subStage(cid, pid, float64(rng.Intn(10)), randomTables(rng)...)
				stages = append(stages, child)
				byID[cid] = child
			}
		}
		rng.Shuffle(len(stages), func(i, j int) { stages[i], stages[j] = stages[j], stages[i] })

		for _, table := range domain.AllTables {
			entries, err := Expand(testAnchor, stages, table, domain.HolidaySet{}, Options{NewID: seqIDs()})
			assert.NoError(t, err)

			for i, e := range entries {
				stage := byID[e.StageID]
				assert.Equal(t, i+1, e.Index, "trial %d: parent index", trial)
				assert.True(t, stage.TargetsTable(table) || len(e.Children) > 0,
					"trial %d: %s in %s without tag or tagged child", trial, e.StageID, table)
				if e.Children != nil {
					assert.NotEmpty(t, e.Children, "trial %d: children must be nil or non-empty", trial)
				}

				for j, c := range e.Children {
					child := byID[c.StageID]
					assert.Equal(t, j+1, c.Index, "trial %d: child index", trial)
					assert.True(t, child.TargetsTable(table), "trial %d: child %s not tagged for %s", trial, c.StageID, table)
					assert.Equal(t, e.StageID, *child.ParentStageID)
					assert.Nil(t, c.Children, "trial %d: nesting deeper than one level", trial)
				}

				if i > 0 {
					prev := byID[entries[i-1].StageID]
					assert.LessOrEqual(t, prev.Order, stage.Order, "trial %d: parents out of order", trial)
				}
			}
		}
	}
}
