package mgame_test

import (
	"testing"
	"time"

	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/stretchr/testify/require"
)

func TestWorldDefaults(t *testing.T) {
	w := mgame.NewWorld(mgame.Features{})

	require.False(t, w.Flag("met_hermit"))
	require.Equal(t, 0, w.Counter("deaths"))
	require.Equal(t, 0, w.Stat("unknown"))
	require.Equal(t, 10, w.Stat(mgame.StatHealth))

	_, ok := w.Quest("missing")
	require.False(t, ok)
}

func TestFeaturesEnabled(t *testing.T) {
	f := mgame.Features{BasicNeeds: true}

	require.True(t, f.Enabled(""))
	require.True(t, f.Enabled(mgame.FeatureBasicNeeds))
	require.False(t, f.Enabled(mgame.FeatureMagic))
	require.False(t, f.Enabled("bogus"))
}

func TestEffectiveStat(t *testing.T) {
	w := mgame.NewWorld(mgame.Features{})
	w.SetStat(mgame.StatHealth, 10)
	w.Modifiers = append(w.Modifiers,
		mgame.Modifier{Name: "blessing", Stat: mgame.StatHealth, Delta: 3, Kind: mgame.DurationPermanent},
		mgame.Modifier{Name: "poison", Stat: mgame.StatHealth, Delta: -2, Kind: mgame.DurationTurns, Remaining: 2},
		mgame.Modifier{Name: "other", Stat: mgame.StatMana, Delta: 5, Kind: mgame.DurationPermanent},
	)

	require.Equal(t, 11, w.EffectiveStat(mgame.StatHealth))
	require.Equal(t, 10, w.Stat(mgame.StatHealth))
}

func TestAdvanceTurnsExpiresModifiers(t *testing.T) {
	w := mgame.NewWorld(mgame.Features{})
	w.SetStat(mgame.StatHealth, 10)
	w.Modifiers = append(w.Modifiers,
		mgame.Modifier{Name: "poison", Stat: mgame.StatHealth, Delta: -2, Kind: mgame.DurationTurns, Remaining: 2},
		mgame.Modifier{Name: "curse", Stat: mgame.StatHealth, Delta: -1, Kind: mgame.DurationPermanent},
	)

	w.AdvanceTurns(1)
	require.Equal(t, 7, w.EffectiveStat(mgame.StatHealth))
	require.Len(t, w.Modifiers, 2)

	w.AdvanceTurns(1)
	require.Equal(t, 9, w.EffectiveStat(mgame.StatHealth))
	require.Len(t, w.Modifiers, 1)
	require.Equal(t, "curse", w.Modifiers[0].Name)
	require.Equal(t, 2, w.Turn)
}

func TestAdvanceSecondsExpiresModifiers(t *testing.T) {
	w := mgame.NewWorld(mgame.Features{})
	w.Modifiers = append(w.Modifiers,
		mgame.Modifier{Name: "haste", Stat: mgame.StatEnergy, Delta: 4, Kind: mgame.DurationSeconds, Remaining: 30, AppliedAt: 0},
	)

	w.AdvanceSeconds(10 * time.Second)
	require.Len(t, w.Modifiers, 1)
	require.Equal(t, 4, w.EffectiveStat(mgame.StatEnergy))

	w.AdvanceSeconds(20 * time.Second)
	require.Len(t, w.Modifiers, 1, "the full duration is still in effect")

	w.AdvanceSeconds(5 * time.Second)
	require.Empty(t, w.Modifiers)
	require.Equal(t, 0, w.EffectiveStat(mgame.StatEnergy))
}

func TestRemoveModifierByName(t *testing.T) {
	w := mgame.NewWorld(mgame.Features{})
	w.Modifiers = append(w.Modifiers,
		mgame.Modifier{Name: "poison", Stat: mgame.StatHealth, Delta: -2},
		mgame.Modifier{Name: "poison", Stat: mgame.StatEnergy, Delta: -1},
		mgame.Modifier{Name: "blessing", Stat: mgame.StatHealth, Delta: 3},
	)

	require.True(t, w.RemoveModifier("poison"))
	require.Len(t, w.Modifiers, 1)
	require.False(t, w.RemoveModifier("poison"))
}

func TestInventoryHelpers(t *testing.T) {
	w := mgame.NewWorld(mgame.Features{})
	w.Player.Inventory = []string{"torch", "rope", "torch"}

	require.True(t, w.HasItem("rope"))
	require.False(t, w.HasItem("sword"))

	require.True(t, w.RemoveItem("torch"))
	require.Equal(t, []string{"rope", "torch"}, w.Player.Inventory)
	require.False(t, w.RemoveItem("sword"))
}

func TestAllMainQuestsCompleted(t *testing.T) {
	w := mgame.NewWorld(mgame.Features{})
	require.False(t, w.AllMainQuestsCompleted())

	w.Quests["side"] = &mgame.Quest{ID: "side", Status: mgame.QuestActive}
	require.False(t, w.AllMainQuestsCompleted())

	w.Quests["main1"] = &mgame.Quest{ID: "main1", MainQuest: true, Status: mgame.QuestCompleted}
	w.Quests["main2"] = &mgame.Quest{ID: "main2", MainQuest: true, Status: mgame.QuestActive}
	require.False(t, w.AllMainQuestsCompleted())

	w.Quests["main2"].Status = mgame.QuestCompleted
	require.True(t, w.AllMainQuestsCompleted())
}

func TestModifierExpiry(t *testing.T) {
	perm := mgame.Modifier{Kind: mgame.DurationPermanent}
	require.False(t, perm.IsExpired(1000, 1e6))

	turns := mgame.Modifier{Kind: mgame.DurationTurns, Remaining: 1}
	require.False(t, turns.IsExpired(5, 0))
	turns.Remaining = 0
	require.True(t, turns.IsExpired(5, 0))

	secs := mgame.Modifier{Kind: mgame.DurationSeconds, Remaining: 10, AppliedAt: 100}
	require.False(t, secs.IsExpired(0, 105))
	require.False(t, secs.IsExpired(0, 110), "still live at exactly the remaining duration")
	require.True(t, secs.IsExpired(0, 110.5))
}

func TestPendingDelayDue(t *testing.T) {
	byTurn := mgame.PendingDelay{Kind: mgame.DurationTurns, DueTurn: 3}
	require.False(t, byTurn.Due(2, 0))
	require.True(t, byTurn.Due(3, 0))

	bySecs := mgame.PendingDelay{Kind: mgame.DurationSeconds, DueSeconds: 12.5}
	require.False(t, bySecs.Due(0, 12))
	require.True(t, bySecs.Due(0, 12.5))
}

func TestScriptsFor(t *testing.T) {
	w := mgame.NewWorld(mgame.Features{})
	npcScript := &mscript.Definition{
		ID:        idwrap.NewNow(),
		OwnerType: mnodedef.OwnerNpc,
		OwnerID:   "hermit",
	}
	w.Scripts = append(w.Scripts,
		npcScript,
		&mscript.Definition{ID: idwrap.NewNow(), OwnerType: mnodedef.OwnerNpc, OwnerID: "guard"},
		&mscript.Definition{ID: idwrap.NewNow(), OwnerType: mnodedef.OwnerRoom, OwnerID: "hermit"},
	)

	got := w.ScriptsFor(mnodedef.OwnerNpc, "hermit")
	require.Len(t, got, 1)
	require.Equal(t, npcScript.ID, got[0].ID)
}

func TestParseDurationKind(t *testing.T) {
	require.Equal(t, mgame.DurationTurns, mgame.ParseDurationKind("Turns"))
	require.Equal(t, mgame.DurationSeconds, mgame.ParseDurationKind("seconds"))
	require.Equal(t, mgame.DurationPermanent, mgame.ParseDurationKind(""))
	require.Equal(t, mgame.DurationPermanent, mgame.ParseDurationKind("whenever"))
}
