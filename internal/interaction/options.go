package interaction

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// OptionKind is the application command option type enum. KindNone marks an
// absent or valueless option.
type OptionKind int

const (
	KindNone            OptionKind = 0
	KindSubCommand      OptionKind = 1
	KindSubCommandGroup OptionKind = 2
	KindString          OptionKind = 3
	KindInteger         OptionKind = 4
	KindBoolean         OptionKind = 5
	KindUser            OptionKind = 6
	KindChannel         OptionKind = 7
	KindRole            OptionKind = 8
	KindMentionable     OptionKind = 9
	KindNumber          OptionKind = 10
	KindAttachment      OptionKind = 11
)

func (k OptionKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSubCommand:
		return "subcommand"
	case KindSubCommandGroup:
		return "subcommand-group"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindUser:
		return "user"
	case KindChannel:
		return "channel"
	case KindRole:
		return "role"
	case KindMentionable:
		return "mentionable"
	case KindNumber:
		return "number"
	case KindAttachment:
		return "attachment"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Option is one raw option as delivered by the platform.
type Option struct {
	Name  string
	Kind  OptionKind
	Value any
}

// OptionValue is a tagged variant holding either a raw scalar or an entity
// hydrated through the resolved table. The typed accessors fail explicitly
// on a kind mismatch instead of miscasting.
type OptionValue struct {
	kind    OptionKind
	raw     any
	user    *discordgo.User
	member  *discordgo.Member
	role    *discordgo.Role
	channel *discordgo.Channel
}

// Option scans the flattened top-level option list for the first entry named
// name. Absent or valueless options yield a KindNone value; this never
// fails. user, role and channel kinds are redirected through the resolved
// table so the accessor returns the hydrated entity, not the literal id.
func (i *Interaction) Option(name string) OptionValue {
	for _, opt := range i.Options {
		if opt.Name != name {
			continue
		}
		if opt.Value == nil {
			return OptionValue{}
		}
		v := OptionValue{kind: opt.Kind, raw: opt.Value}
		switch opt.Kind {
		case KindUser:
			if id, ok := opt.Value.(string); ok {
				v.user = i.Resolved.Users[id]
				v.member = i.Resolved.Members[id]
			}
		case KindRole:
			if id, ok := opt.Value.(string); ok {
				v.role = i.Resolved.Roles[id]
			}
		case KindChannel:
			if id, ok := opt.Value.(string); ok {
				v.channel = i.Resolved.Channels[id]
			}
		}
		return v
	}
	return OptionValue{}
}

// Missing reports whether the option was absent or carried no value.
func (v OptionValue) Missing() bool { return v.kind == KindNone }

// Kind returns the option's declared kind.
func (v OptionValue) Kind() OptionKind { return v.kind }

// Raw returns the untyped value as delivered by the platform.
func (v OptionValue) Raw() any { return v.raw }

// StringValue returns a string option's value.
func (v OptionValue) StringValue() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch(KindString)
	}
	s, _ := v.raw.(string)
	return s, nil
}

// IntValue returns an integer option's value. JSON decoding may deliver the
// number as float64; both representations are accepted.
func (v OptionValue) IntValue() (int64, error) {
	if v.kind != KindInteger {
		return 0, v.mismatch(KindInteger)
	}
	switch n := v.raw.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	}
	return 0, fmt.Errorf("interaction: integer option holds %T", v.raw)
}

// FloatValue returns a number option's value.
func (v OptionValue) FloatValue() (float64, error) {
	if v.kind != KindNumber {
		return 0, v.mismatch(KindNumber)
	}
	f, _ := v.raw.(float64)
	return f, nil
}

// BoolValue returns a boolean option's value.
func (v OptionValue) BoolValue() (bool, error) {
	if v.kind != KindBoolean {
		return false, v.mismatch(KindBoolean)
	}
	b, _ := v.raw.(bool)
	return b, nil
}

// UserValue returns the resolved user of a user option, or nil when the
// platform did not include it in the resolved table.
func (v OptionValue) UserValue() (*discordgo.User, error) {
	if v.kind != KindUser {
		return nil, v.mismatch(KindUser)
	}
	return v.user, nil
}

// MemberValue returns the resolved member of a user option, when present.
func (v OptionValue) MemberValue() (*discordgo.Member, error) {
	if v.kind != KindUser {
		return nil, v.mismatch(KindUser)
	}
	return v.member, nil
}

// RoleValue returns the resolved role of a role option.
func (v OptionValue) RoleValue() (*discordgo.Role, error) {
	if v.kind != KindRole {
		return nil, v.mismatch(KindRole)
	}
	return v.role, nil
}

// ChannelValue returns the resolved channel of a channel option.
func (v OptionValue) ChannelValue() (*discordgo.Channel, error) {
	if v.kind != KindChannel {
		return nil, v.mismatch(KindChannel)
	}
	return v.channel, nil
}

func (v OptionValue) mismatch(want OptionKind) error {
	return fmt.Errorf("interaction: option is %s, not %s", v.kind, want)
}
