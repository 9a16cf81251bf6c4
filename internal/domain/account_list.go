package domain

import "fmt"

// AccountList holds every account except the active one, most recently
// deactivated first.
type AccountList []AccountRecord

func (l AccountList) Find(creationTimestamp int64) (AccountRecord, bool) {
	for _, record := range l {
		if record.CreationTimestamp == creationTimestamp {
			return record, true
		}
	}
	return AccountRecord{}, false
}

func (l AccountList) FindByBackendURL(backendURL string) (AccountRecord, bool) {
	for _, record := range l {
		if SameBackend(record.Config.BackendURL, backendURL) {
			return record, true
		}
	}
	return AccountRecord{}, false
}

func (l AccountList) Without(creationTimestamp int64) AccountList {
	out := make(AccountList, 0, len(l))
	for _, record := range l {
		if record.CreationTimestamp == creationTimestamp {
			continue
		}
		out = append(out, record)
	}
	return out
}

// Prepend puts record first, dropping any entry that shares its identity key.
func (l AccountList) Prepend(record AccountRecord) AccountList {
	out := make(AccountList, 0, len(l)+1)
	out = append(out, record)
	return append(out, l.Without(record.CreationTimestamp)...)
}

func (l AccountList) Clone() AccountList {
	if l == nil {
		return nil
	}
	out := make(AccountList, 0, len(l))
	for _, record := range l {
		out = append(out, record.Clone())
	}
	return out
}

func (l AccountList) MaxCreationTimestamp() int64 {
	var max int64
	for _, record := range l {
		if record.CreationTimestamp > max {
			max = record.CreationTimestamp
		}
	}
	return max
}

// ValidateUnique checks that no two records share a creation timestamp. Records
// without one (never activated) are ignored.
func ValidateUnique(active AccountRecord, others AccountList) error {
	seen := make(map[int64]struct{}, len(others)+1)
	check := func(record AccountRecord) error {
		if record.CreationTimestamp == 0 {
			return nil
		}
		if _, ok := seen[record.CreationTimestamp]; ok {
			return fmt.Errorf("duplicate account creation timestamp %d", record.CreationTimestamp)
		}
		seen[record.CreationTimestamp] = struct{}{}
		return nil
	}

	if err := check(active); err != nil {
		return err
	}
	for _, record := range others {
		if err := check(record); err != nil {
			return err
		}
	}
	return nil
}
