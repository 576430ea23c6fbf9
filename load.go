package goprops

import "github.com/reoring/goprops/types"

// FromHash builds an instance from plain data. The first problem aborts the
// load; no partially built instance is returned.
func (st *StructType) FromHash(plain map[string]any) (*Instance, error) {
	in, err := st.load(plain, nil, nil)
	if err != nil {
		return nil, err
	}
	return in, nil
}

// FromHashWithMeta is FromHash that also reports, per prop, whether the key
// was seen, whether it held nil and whether the default filled it.
func (st *StructType) FromHashWithMeta(plain map[string]any) (Decoded, error) {
	pm := PresenceMap{}
	in, err := st.load(plain, pm, nil)
	if err != nil {
		return Decoded{}, err
	}
	return Decoded{Value: in, Presence: pm}, nil
}

// Validate checks plain data without keeping an instance and returns every
// problem found, one Issue per prop. Refine hooks run only when the props
// themselves are clean.
func (st *StructType) Validate(plain map[string]any) Issues {
	var iss Issues
	if _, err := st.load(plain, nil, &iss); err != nil {
		iss = append(iss, toIssues(err)...)
	}
	if len(iss) == 0 {
		return nil
	}
	return iss
}

func toIssues(err error) Issues {
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Code: CodeInvalidValue, Message: err.Error(), Cause: err}}
}

// load walks the props in declaration order. With a sink it records problems
// and keeps going; without one it returns the first.
func (st *StructType) load(plain map[string]any, pm PresenceMap, sink *Issues) (*Instance, error) {
	fail := func(err error) error {
		if sink == nil {
			return err
		}
		*sink = append(*sink, toIssues(err)...)
		return nil
	}
	in := newInstance(st)
	for i, f := range st.fields {
		raw, seen := plain[f.name]
		var flags Presence
		if seen {
			flags |= PresenceSeen
			if raw == nil {
				flags |= PresenceWasNull
			}
		}
		if raw == nil {
			switch f.policy {
			case PolicyStrict:
				if err := fail(&MissingPropertyError{Struct: st.name, Field: f.name, Phase: PhaseLoad}); err != nil {
					return nil, err
				}
			case PolicyDefault:
				v, err := defaultFor(st.name, f)
				if err != nil {
					if err := fail(err); err != nil {
						return nil, err
					}
					break
				}
				in.slots[i] = slot{v: v, set: true}
				flags |= PresenceDefaultApplied
			case PolicyNilable:
				if seen {
					in.slots[i] = slot{set: true}
				}
			}
		} else {
			v, err := types.Deserialize(f.typ, raw)
			if err != nil {
				if err := fail(invalidValue(st.name, f.name, err)); err != nil {
					return nil, err
				}
			} else {
				in.slots[i] = slot{v: v, set: true}
			}
		}
		if pm != nil && flags != 0 {
			pm[types.JoinPointer("", f.name)] = flags
		}
	}
	for _, k := range sortedKeys(plain) {
		if _, ok := st.index[k]; ok {
			continue
		}
		switch st.cfg.Unknown {
		case UnknownStrict:
			if err := fail(&UnknownKeyError{Struct: st.name, Key: k}); err != nil {
				return nil, err
			}
		case UnknownPassthrough:
			if in.extra == nil {
				in.extra = map[string]any{}
			}
			in.extra[k] = plain[k]
		}
	}
	if sink != nil && len(*sink) > 0 {
		return nil, nil
	}
	if err := st.refine(in); err != nil {
		return nil, err
	}
	return in, nil
}
