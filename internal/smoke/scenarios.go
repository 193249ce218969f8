package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/skillfolio/pkg/logger"
)

// Scenario is one scripted journey run in a fresh session.
type Scenario struct {
	Name        string
	Description string
	run         func(ctx context.Context, c *Client, snap snapshot) error
}

// Result is the outcome of one scenario.
type Result struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Passed reports whether the scenario succeeded.
func (r Result) Passed() bool { return r.Err == nil }

// Scenarios returns the built-in journeys in run order.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "pending-level",
			Description: "create Rust, select it at level 2, deselect it and expect pending level 2",
			run:         pendingLevel,
		},
		{
			Name:        "evidence",
			Description: "select two skills, expect AI unset, submit evidence and expect AI scores in [1,5]",
			run:         evidenceRegeneratesAI,
		},
		{
			Name:        "duplicate-name",
			Description: "create an existing available name in another case and expect 409",
			run:         duplicateName,
		},
		{
			Name:        "edit-commit",
			Description: "rename an available skill through the edit slot",
			run:         editCommit,
		},
	}
}

// Run executes the named scenarios, or all of them when names is empty.
// Each scenario gets its own session, which is ended afterwards.
func Run(ctx context.Context, c *Client, names ...string) ([]Result, error) {
	selected, err := pick(names)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(selected))
	for _, sc := range selected {
		start := time.Now()
		err := runOne(ctx, c, sc)
		res := Result{Name: sc.Name, Duration: time.Since(start), Err: err}
		if err != nil {
			c.logger.Error(ctx, "scenario failed", logger.String("scenario", sc.Name), logger.Error(err))
		} else {
			c.logger.Info(ctx, "scenario passed", logger.String("scenario", sc.Name))
		}
		results = append(results, res)
	}
	return results, nil
}

func pick(names []string) ([]Scenario, error) {
	all := Scenarios()
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Scenario, len(all))
	for _, sc := range all {
		byName[sc.Name] = sc
	}
	out := make([]Scenario, 0, len(names))
	for _, n := range names {
		sc, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, n)
		}
		out = append(out, sc)
	}
	return out, nil
}

func runOne(ctx context.Context, c *Client, sc Scenario) error {
	snap, err := c.startSession(ctx)
	if err != nil {
		return err
	}
	runErr := sc.run(ctx, c, snap)
	if endErr := c.endSession(ctx, snap.ID); endErr != nil && runErr == nil {
		return endErr
	}
	return runErr
}

func failf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrAssertion}, args...)...)
}

func pendingLevel(ctx context.Context, c *Client, snap snapshot) error {
	rust, err := c.createSkill(ctx, snap.ID, "Rust")
	if err != nil {
		return err
	}
	sel, err := c.selectSkill(ctx, snap.ID, rust.ID, 2)
	if err != nil {
		return err
	}
	if sel.Level != 2 {
		return failf("selected level %d, want 2", sel.Level)
	}
	if err := c.deselectSkill(ctx, snap.ID, rust.ID); err != nil {
		return err
	}
	list, err := c.available(ctx, snap.ID, "rust")
	if err != nil {
		return err
	}
	for _, sk := range list {
		if sk.ID == rust.ID {
			if sk.PendingLevel != "2" {
				return failf("pending level %q, want \"2\"", sk.PendingLevel)
			}
			return nil
		}
	}
	return failf("Rust missing from available after deselect")
}

func evidenceRegeneratesAI(ctx context.Context, c *Client, snap snapshot) error {
	cat := snap.Category
	avail := snap.Categories[cat].Available
	if len(avail) < 2 {
		return failf("need two available %s skills, have %d", cat, len(avail))
	}
	for i, sk := range avail[:2] {
		if _, err := c.selectSkill(ctx, snap.ID, sk.ID, i+1); err != nil {
			return err
		}
	}

	m, err := c.matrix(ctx, snap.ID, cat)
	if err != nil {
		return err
	}
	if m.Evidence {
		return failf("evidence open before any submission")
	}
	for _, cl := range m.Rows["ai"] {
		if cl.Score != nil {
			return failf("AI score %d shown before evidence", *cl.Score)
		}
	}
	if err := inRange(m.Rows["teacher"], 2); err != nil {
		return err
	}

	if err := c.submitEvidence(ctx, snap.ID, uuid.NewString(), cat); err != nil {
		return err
	}
	err = c.poll(ctx, "evidence to apply", func() (bool, error) {
		m, err = c.matrix(ctx, snap.ID, cat)
		return err == nil && m.Evidence, err
	})
	if err != nil {
		return err
	}
	return inRange(m.Rows["ai"], 2)
}

func inRange(row []cell, want int) error {
	if len(row) != want {
		return failf("row has %d cells, want %d", len(row), want)
	}
	for _, cl := range row {
		if cl.Score == nil || *cl.Score < 1 || *cl.Score > 5 {
			return failf("score of %s outside [1,5]", cl.SkillID)
		}
	}
	return nil
}

func duplicateName(ctx context.Context, c *Client, snap snapshot) error {
	avail := snap.Categories[snap.Category].Available
	if len(avail) == 0 {
		return failf("no available %s skills", snap.Category)
	}
	name := swapCase(avail[0].Name)
	for _, sk := range avail {
		if strings.EqualFold(sk.Name, "Python") {
			name = "python"
			break
		}
	}
	_, err := c.createSkill(ctx, snap.ID, name)
	var se *StatusError
	if !errors.As(err, &se) {
		return failf("creating %q: got %v, want 409", name, err)
	}
	if se.Status != http.StatusConflict || se.Code != "duplicate_name" {
		return failf("creating %q: got %d %s, want 409 duplicate_name", name, se.Status, se.Code)
	}
	return nil
}

func swapCase(s string) string {
	if lower := strings.ToLower(s); lower != s {
		return lower
	}
	return strings.ToUpper(s)
}

func editCommit(ctx context.Context, c *Client, snap snapshot) error {
	avail := snap.Categories[snap.Category].Available
	if len(avail) == 0 {
		return failf("no available %s skills", snap.Category)
	}
	target := avail[0]
	base := "/sessions/" + snap.ID + "/edit"
	open := map[string]string{"skill_id": target.ID, "pool": "available"}
	if err := c.do(ctx, http.MethodPost, base, open, http.StatusCreated, nil); err != nil {
		return err
	}
	renamed := target.Name + " (edited)"
	update := map[string]string{"name": renamed, "level": "3"}
	if err := c.do(ctx, http.MethodPatch, base, update, http.StatusOK, nil); err != nil {
		return err
	}
	var sk skill
	if err := c.do(ctx, http.MethodPost, base+"/commit", nil, http.StatusOK, &sk); err != nil {
		return err
	}
	if sk.Name != renamed {
		return failf("committed name %q, want %q", sk.Name, renamed)
	}
	list, err := c.available(ctx, snap.ID, "(edited)")
	if err != nil {
		return err
	}
	if len(list) != 1 || list[0].PendingLevel != "3" {
		return failf("edited skill not listed with pending level 3: %+v", list)
	}
	return nil
}
