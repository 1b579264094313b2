package registry

// Prefs are per-case display preferences, kept in a separate file so
// case definitions stay immutable.
type Prefs struct {
	Pinned bool `json:"pinned,omitempty"`
	Hidden bool `json:"hidden,omitempty"`
}

// Prefs returns the preferences for a case. Unset cases get the zero
// value.
func (r *Registry) Prefs(caseID string) (Prefs, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefs, err := r.loadPrefs()
	if err != nil {
		return Prefs{}, err
	}
	return prefs[caseID], nil
}

// SetPinned pins or unpins a case.
func (r *Registry) SetPinned(caseID string, pinned bool) error {
	return r.updatePref(caseID, func(p *Prefs) { p.Pinned = pinned })
}

// SetHidden hides or unhides a case.
func (r *Registry) SetHidden(caseID string, hidden bool) error {
	return r.updatePref(caseID, func(p *Prefs) { p.Hidden = hidden })
}

func (r *Registry) updatePref(caseID string, apply func(*Prefs)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefs, err := r.loadPrefs()
	if err != nil {
		return err
	}
	p := prefs[caseID]
	apply(&p)
	if p == (Prefs{}) {
		delete(prefs, caseID)
	} else {
		prefs[caseID] = p
	}
	return r.saveJSON(prefsFile, prefs)
}

func (r *Registry) loadPrefs() (map[string]Prefs, error) {
	prefs := make(map[string]Prefs)
	if err := r.loadJSON(prefsFile, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
