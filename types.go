package ihdrs

import (
	"encoding/json"
	"fmt"
)

// Profile is the authenticated user's record as reported by the backend.
// Unknown fields are preserved in Extra so they survive persistence and
// profile refreshes without this package having to know about them.
type Profile struct {
	UserID      int64
	Username    string
	Role        string
	Email       string
	Phone       string
	Permissions []string
	Extra       map[string]json.RawMessage
}

// IsEmpty reports whether the profile identifies nobody.
func (p Profile) IsEmpty() bool {
	return p.UserID == 0 && p.Username == "" && p.Role == ""
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	out := p
	if p.Permissions != nil {
		out.Permissions = append([]string(nil), p.Permissions...)
	}
	if p.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// MarshalJSON flattens Extra back into the object, with the named fields
// taking precedence over any shadowing extension field.
func (p Profile) MarshalJSON() ([]byte, error) {
	obj := make(map[string]json.RawMessage, len(p.Extra)+6)
	for k, v := range p.Extra {
		obj[k] = v
	}

	put := func(key string, value any) error {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("profile field %s: %w", key, err)
		}
		obj[key] = raw
		return nil
	}

	if err := put("userId", p.UserID); err != nil {
		return nil, err
	}
	if err := put("username", p.Username); err != nil {
		return nil, err
	}
	if err := put("role", p.Role); err != nil {
		return nil, err
	}
	if p.Email != "" {
		if err := put("email", p.Email); err != nil {
			return nil, err
		}
	}
	if p.Phone != "" {
		if err := put("phone", p.Phone); err != nil {
			return nil, err
		}
	}
	if p.Permissions != nil {
		if err := put("permissions", p.Permissions); err != nil {
			return nil, err
		}
	}
	return json.Marshal(obj)
}

// UnmarshalJSON splits the object into the named fields and Extra.
func (p *Profile) UnmarshalJSON(data []byte) error {
	obj := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*p = Profile{}
	take := func(key string, dst any) error {
		raw, ok := obj[key]
		if !ok {
			return nil
		}
		delete(obj, key)
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("profile field %s: %w", key, err)
		}
		return nil
	}

	if err := take("userId", &p.UserID); err != nil {
		return err
	}
	if err := take("username", &p.Username); err != nil {
		return err
	}
	if err := take("role", &p.Role); err != nil {
		return err
	}
	if err := take("email", &p.Email); err != nil {
		return err
	}
	if err := take("phone", &p.Phone); err != nil {
		return err
	}
	if err := take("permissions", &p.Permissions); err != nil {
		return err
	}
	if len(obj) > 0 {
		p.Extra = obj
	}
	return nil
}

// merge applies a shallow field update, last write wins per field. Named
// fields are updated in place; anything else lands in Extra.
func (p *Profile) merge(fields map[string]any) error {
	for key, value := range fields {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("profile field %s: %w", key, err)
		}
		switch key {
		case "userId":
			if err := json.Unmarshal(raw, &p.UserID); err != nil {
				return fmt.Errorf("profile field %s: %w", key, err)
			}
		case "username":
			if err := json.Unmarshal(raw, &p.Username); err != nil {
				return fmt.Errorf("profile field %s: %w", key, err)
			}
		case "role":
			if err := json.Unmarshal(raw, &p.Role); err != nil {
				return fmt.Errorf("profile field %s: %w", key, err)
			}
		case "email":
			if err := json.Unmarshal(raw, &p.Email); err != nil {
				return fmt.Errorf("profile field %s: %w", key, err)
			}
		case "phone":
			if err := json.Unmarshal(raw, &p.Phone); err != nil {
				return fmt.Errorf("profile field %s: %w", key, err)
			}
		case "permissions":
			if err := json.Unmarshal(raw, &p.Permissions); err != nil {
				return fmt.Errorf("profile field %s: %w", key, err)
			}
		default:
			if p.Extra == nil {
				p.Extra = map[string]json.RawMessage{}
			}
			p.Extra[key] = raw
		}
	}
	return nil
}

// Credentials is the login form.
type Credentials struct {
	Username string
	Password string
}

// Registration is the signup form. Email and Phone are optional.
type Registration struct {
	Username string
	Password string
	Email    string
	Phone    string
}

// Snapshot is a point-in-time copy of the session visible to readers.
// Mutating it has no effect on the Manager.
type Snapshot struct {
	Profile     Profile
	Roles       []string
	Permissions []string
}

// Redirect is a navigation intent emitted by session operations. The host
// app's navigation adapter interprets it; the core never navigates itself.
type Redirect struct {
	To string
}

// LoginResult is returned by [Manager.Login].
type LoginResult struct {
	Snapshot   Snapshot
	TokenType  string
	ExpiresIn  int64
	RedirectTo string
}

// RegisterResult is returned by [Manager.Register]. Registration never
// creates a session; Created is the backend's record of the new account,
// for display only.
type RegisterResult struct {
	Created    json.RawMessage
	RedirectTo string
}
