package permission

// Permission is a named capability flag. Its numeric value is the bit offset
// inside a [Set] and matches the external protocol's permission table.
type Permission uint8

const (
	// CreateInstantInvite is bit 0 of the protocol permission table.
	CreateInstantInvite Permission = 0
	// KickMembers is bit 1 of the protocol permission table.
	KickMembers Permission = 1
	// BanMembers is bit 2 of the protocol permission table.
	BanMembers Permission = 2
	// Administrator is bit 3. A holder bypasses every other check: guild-level
	// resolution widens it to [All] and channel overrides never apply.
	Administrator Permission = 3
	// ManageChannel is bit 4 of the protocol permission table.
	ManageChannel Permission = 4
	// ManageServer is bit 5 of the protocol permission table.
	ManageServer Permission = 5
	// AddReactions is bit 6 of the protocol permission table.
	AddReactions Permission = 6
	// ViewAuditLogs is bit 7 of the protocol permission table.
	ViewAuditLogs Permission = 7

	// ReadMessages is bit 10 of the protocol permission table.
	ReadMessages Permission = 10
	// SendMessages is bit 11 of the protocol permission table.
	SendMessages Permission = 11
	// SendTTSMessages is bit 12 of the protocol permission table.
	SendTTSMessages Permission = 12
	// ManageMessages is bit 13 of the protocol permission table.
	ManageMessages Permission = 13
	// EmbedLinks is bit 14 of the protocol permission table.
	EmbedLinks Permission = 14
	// AttachFiles is bit 15 of the protocol permission table.
	AttachFiles Permission = 15
	// ReadHistory is bit 16 of the protocol permission table.
	ReadHistory Permission = 16
	// MentionEveryone is bit 17 of the protocol permission table.
	MentionEveryone Permission = 17
	// UseExternalEmotes is bit 18 of the protocol permission table.
	UseExternalEmotes Permission = 18

	// VoiceConnect is bit 20 of the protocol permission table.
	VoiceConnect Permission = 20
	// VoiceSpeak is bit 21 of the protocol permission table.
	VoiceSpeak Permission = 21
	// VoiceMuteOthers is bit 22 of the protocol permission table.
	VoiceMuteOthers Permission = 22
	// VoiceDeafenOthers is bit 23 of the protocol permission table.
	VoiceDeafenOthers Permission = 23
	// VoiceMoveOthers is bit 24 of the protocol permission table.
	VoiceMoveOthers Permission = 24
	// VoiceUseVAD is bit 25 of the protocol permission table.
	VoiceUseVAD Permission = 25

	// ChangeNickname is bit 26 of the protocol permission table.
	ChangeNickname Permission = 26
	// ManageNicknames is bit 27 of the protocol permission table.
	ManageNicknames Permission = 27
	// ManageRoles is bit 28. At channel level the same bit acts as the
	// manage-permissions capability.
	ManageRoles Permission = 28
	// ManageWebhooks is bit 29 of the protocol permission table.
	ManageWebhooks Permission = 29
	// ManageEmotes is bit 30 of the protocol permission table.
	ManageEmotes Permission = 30

	maxBit = 64
)

type permissionDef struct {
	name    string
	guild   bool
	channel bool
}

// defs is indexed by bit offset. A nil entry is a reserved offset.
var defs = [maxBit]*permissionDef{
	CreateInstantInvite: {"create instant invite", true, true},
	KickMembers:         {"kick members", true, false},
	BanMembers:          {"ban members", true, false},
	Administrator:       {"administrator", true, false},
	ManageChannel:       {"manage channel", true, true},
	ManageServer:        {"manage server", true, false},
	AddReactions:        {"add reactions", true, true},
	ViewAuditLogs:       {"view audit logs", true, false},
	ReadMessages:        {"read messages", true, true},
	SendMessages:        {"send messages", true, true},
	SendTTSMessages:     {"send tts messages", true, true},
	ManageMessages:      {"manage messages", true, true},
	EmbedLinks:          {"embed links", true, true},
	AttachFiles:         {"attach files", true, true},
	ReadHistory:         {"read history", true, true},
	MentionEveryone:     {"mention everyone", true, true},
	UseExternalEmotes:   {"use external emotes", true, true},
	VoiceConnect:        {"voice connect", true, true},
	VoiceSpeak:          {"voice speak", true, true},
	VoiceMuteOthers:     {"voice mute others", true, true},
	VoiceDeafenOthers:   {"voice deafen others", true, true},
	VoiceMoveOthers:     {"voice move others", true, true},
	VoiceUseVAD:         {"voice use vad", true, true},
	ChangeNickname:      {"change nickname", true, false},
	ManageNicknames:     {"manage nicknames", true, false},
	ManageRoles:         {"manage roles", true, true},
	ManageWebhooks:      {"manage webhooks", true, true},
	ManageEmotes:        {"manage emotes", true, false},
}

// All is the union of every defined permission bit.
var All Set

// AllChannel is the union of every channel-applicable permission bit.
// Override bits outside AllChannel are ignored during channel resolution.
var AllChannel Set

// AllGuild is the union of every guild-applicable permission bit.
var AllGuild Set

func init() {
	for bit, def := range defs {
		if def == nil {
			continue
		}
		All |= 1 << uint(bit)
		if def.channel {
			AllChannel |= 1 << uint(bit)
		}
		if def.guild {
			AllGuild |= 1 << uint(bit)
		}
	}
}

// Valid reports whether p is a defined permission offset.
func (p Permission) Valid() bool {
	return p < maxBit && defs[p] != nil
}

// Raw returns the single-bit raw value of p, or 0 for an undefined offset.
func (p Permission) Raw() uint64 {
	if !p.Valid() {
		return 0
	}
	return 1 << uint(p)
}

// Offset returns the bit offset of p.
func (p Permission) Offset() int {
	return int(p)
}

// ChannelApplicable reports whether p participates in channel overrides.
func (p Permission) ChannelApplicable() bool {
	return p.Valid() && defs[p].channel
}

// GuildApplicable reports whether p is meaningful at guild level.
func (p Permission) GuildApplicable() bool {
	return p.Valid() && defs[p].guild
}

// String returns the permission's protocol name, or "unknown" for a reserved
// offset.
func (p Permission) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return defs[p].name
}

// ByName looks up a permission by its protocol name.
func ByName(name string) (Permission, bool) {
	for bit, def := range defs {
		if def != nil && def.name == name {
			return Permission(bit), true
		}
	}
	return 0, false
}

// Registered returns every defined permission in ascending bit order.
func Registered() []Permission {
	out := make([]Permission, 0, 32)
	for bit, def := range defs {
		if def != nil {
			out = append(out, Permission(bit))
		}
	}
	return out
}
