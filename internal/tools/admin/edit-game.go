package admin

import (
	"errors"
	"fmt"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/assign"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/tools/render"
)

const (
	actionSave    = "Save changes"
	actionDiscard = "Discard changes"
	clearSlot     = "(nobody)"
)

// EditGame walks the admin through reassigning a game's crew one slot at a time.
// Nothing is written until the admin saves, and a rejected save keeps the pending changes for fixing.
func EditGame(ctx *Context) error {
	if err := requireAdmin(ctx, "EditGame"); err != nil {
		return err
	}
	if ctx.ID == "" {
		return fmt.Errorf("EditGame: no game ID given")
	}

	v, err := ctx.Engine.Game(ctx, ctx.ID, nil)
	if err != nil {
		return fmt.Errorf("EditGame: %w", err)
	}
	members, err := ctx.Engine.Roster(ctx, nil)
	if err != nil {
		return fmt.Errorf("EditGame: %w", err)
	}
	options, byOption := memberOptions(members)
	byName := firestore.NewRosterByName(members)

	ed := assign.NewEditor(v)
	for {
		eff := ed.Effective()
		preview := previewOf(v, ed, byName)
		render.Crew(ctx.Out, preview)

		actions := make([]string, 0, len(firestore.Slots)+2)
		bySlot := make(map[string]firestore.Slot, len(firestore.Slots))
		for _, slot := range firestore.Slots {
			label := fmt.Sprintf("Change %s (%s)", slot, render.Official(preview, slot))
			if _, pending := ed.Pending()[slot]; pending {
				label += " *"
			}
			actions = append(actions, label)
			bySlot[label] = slot
		}
		actions = append(actions, actionSave, actionDiscard)

		var action string
		if err := survey.AskOne(&survey.Select{Message: fmt.Sprintf("Editing %s @ %s on %s", eff.AwayTeam, eff.HomeTeam, eff.GameDate), Options: actions}, &action); err != nil {
			return fmt.Errorf("EditGame: %w", err)
		}

		switch action {
		case actionDiscard:
			ctx.Log.Info().Str("schedule", ctx.ID).Msg("changes discarded")
			return nil

		case actionSave:
			if !ed.Changed() {
				ctx.Log.Info().Str("schedule", ctx.ID).Msg("nothing to save")
				return nil
			}
			if ctx.DryRun {
				if err := assign.Validate(ed.Entry(), ed.Pending()); err != nil {
					fmt.Fprintf(ctx.Out, "Cannot save: %s\n", err)
					continue
				}
				ctx.Log.Info().Interface("changes", assign.Diff(ed.Entry(), ed.Pending())).Msgf("DRY RUN: would save changes to %s", ctx.ID)
				return nil
			}
			err := ctx.Service.CommitEditor(ctx, ed)
			var ve *assign.ValidationError
			if errors.As(err, &ve) {
				fmt.Fprintf(ctx.Out, "Cannot save: %s\n", ve)
				continue
			}
			if err != nil {
				return fmt.Errorf("EditGame: %w", err)
			}
			fmt.Fprintf(ctx.Out, "Saved %s.\n", ctx.ID)
			return nil
		}

		slot := bySlot[action]
		var choice string
		q := &survey.Select{
			Message: fmt.Sprintf("Who should work %s?", slot),
			Options: append([]string{clearSlot}, options...),
		}
		if err := survey.AskOne(q, &choice, survey.WithPageSize(15)); err != nil {
			return fmt.Errorf("EditGame: %w", err)
		}
		if choice == clearSlot {
			ed.Remove(slot)
			continue
		}
		if err := ed.Select(slot, byOption[choice]); err != nil {
			fmt.Fprintf(ctx.Out, "Cannot select: %s\n", err)
		}
	}
}

// previewOf is v as it would look with the editor's pending changes saved.
func previewOf(v aggregate.GameView, ed *assign.Editor, byName firestore.RosterByName) aggregate.GameView {
	preview := v
	preview.ScheduleEntry = ed.Effective()
	preview.Officials = make(map[firestore.Slot]*firestore.RosterMember, len(firestore.Slots))
	for slot, m := range v.Officials {
		preview.Officials[slot] = m
	}
	preview.Ambiguous = nil
	pending := ed.Pending()
	for _, slot := range v.Ambiguous {
		if _, ok := pending[slot]; !ok {
			preview.Ambiguous = append(preview.Ambiguous, slot)
		}
	}
	for slot, name := range pending {
		m, err := byName.Lookup(name)
		if err != nil {
			preview.Ambiguous = append(preview.Ambiguous, slot)
		}
		preview.Officials[slot] = m
	}
	return preview
}

// memberOptions labels each roster member uniquely. Members sharing a name are told apart by document ID.
// Members without a stored lastFirstFullName are left out: schedule joins could never find them.
func memberOptions(members []firestore.RosterMember) ([]string, map[string]firestore.RosterMember) {
	count := make(map[string]int, len(members))
	for _, m := range members {
		count[m.LastFirstFullName]++
	}
	options := make([]string, 0, len(members))
	byOption := make(map[string]firestore.RosterMember, len(members))
	for _, m := range members {
		label := m.LastFirstFullName
		if label == "" {
			continue
		}
		if count[label] > 1 {
			label = fmt.Sprintf("%s [%s]", label, m.ID)
		}
		options = append(options, label)
		byOption[label] = m
	}
	sort.Strings(options)
	return options, byOption
}
