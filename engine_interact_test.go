package guildperm

import (
	"context"
	"errors"
	"testing"
)

func TestCanInteractRank(t *testing.T) {
	engine := newTestEngine(t)
	guild := testGuild(t)
	ctx := context.Background()

	mod := testMember("mod", Role{ID: "r-mod", GuildID: "g1", Position: 5})
	helper := testMember("helper", Role{ID: "r-helper", GuildID: "g1", Position: 3})

	ok, err := engine.CanInteract(ctx, guild, mod, helper)
	if err != nil || !ok {
		t.Fatalf("position 5 should outrank position 3, ok=%v err=%v", ok, err)
	}

	ok, err = engine.CanInteract(ctx, guild, helper, mod)
	if err != nil || ok {
		t.Fatalf("position 3 must not outrank position 5, ok=%v err=%v", ok, err)
	}
}

func TestCanInteractEqualRankDenied(t *testing.T) {
	engine := newTestEngine(t)
	guild := testGuild(t)

	a := testMember("a", Role{ID: "r-a", GuildID: "g1", Position: 4})
	b := testMember("b", Role{ID: "r-b", GuildID: "g1", Position: 4})

	ok, err := engine.CanInteract(context.Background(), guild, a, b)
	if err != nil || ok {
		t.Fatalf("equal rank must never grant, ok=%v err=%v", ok, err)
	}
}

func TestCanInteractOwner(t *testing.T) {
	engine := newTestEngine(t)
	guild := testGuild(t)
	ctx := context.Background()

	owner := testMember("owner")
	mod := testMember("mod", Role{ID: "r-mod", GuildID: "g1", Position: 9})

	// owner wins regardless of held roles
	ok, err := engine.CanInteract(ctx, guild, owner, mod)
	if err != nil || !ok {
		t.Fatalf("owner should outrank everyone, ok=%v err=%v", ok, err)
	}

	// nobody but the owner outranks the owner
	ok, err = engine.CanInteract(ctx, guild, mod, owner)
	if err != nil || ok {
		t.Fatalf("member must not outrank owner, ok=%v err=%v", ok, err)
	}
}

func TestCanInteractSelfDenied(t *testing.T) {
	engine := newTestEngine(t)
	guild := testGuild(t)

	owner := testMember("owner")
	ok, err := engine.CanInteract(context.Background(), guild, owner, owner)
	if err != nil || ok {
		t.Fatalf("self-interaction must be denied even for the owner, ok=%v err=%v", ok, err)
	}
}

func TestCanInteractForeignMember(t *testing.T) {
	engine := newTestEngine(t)
	guild := testGuild(t)

	foreign := testMember("x")
	foreign.GuildID = "g2"

	if _, err := engine.CanInteract(context.Background(), guild, testMember("a"), foreign); !errors.Is(err, ErrForeignMember) {
		t.Fatalf("expected ErrForeignMember, got %v", err)
	}
}

func TestCanInteractWithRole(t *testing.T) {
	engine := newTestEngine(t)
	guild := testGuild(t)
	ctx := context.Background()

	mod := testMember("mod", Role{ID: "r-mod", GuildID: "g1", Position: 5})

	ok, err := engine.CanInteractWithRole(ctx, guild, mod, Role{ID: "r-low", GuildID: "g1", Position: 3})
	if err != nil || !ok {
		t.Fatalf("should manage a lower role, ok=%v err=%v", ok, err)
	}

	// equal position is not strictly above
	ok, err = engine.CanInteractWithRole(ctx, guild, mod, Role{ID: "r-peer", GuildID: "g1", Position: 5})
	if err != nil || ok {
		t.Fatalf("must not manage a role at own rank, ok=%v err=%v", ok, err)
	}

	ok, err = engine.CanInteractWithRole(ctx, guild, testMember("owner"), Role{ID: "r-top", GuildID: "g1", Position: 99})
	if err != nil || !ok {
		t.Fatalf("owner should manage any role, ok=%v err=%v", ok, err)
	}

	if _, err := engine.CanInteractWithRole(ctx, guild, mod, Role{ID: "r-x", GuildID: "g2", Position: 1}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for foreign role, got %v", err)
	}
}

func TestCanInteractWithEmote(t *testing.T) {
	engine := newTestEngine(t)
	guild := testGuild(t)
	ctx := context.Background()

	restricting := Role{ID: "r-sub", GuildID: "g1", Position: 2}

	member := testMember("u1", Role{ID: "r-other", GuildID: "g1", Position: 1})
	holder := testMember("u2", restricting)
	above := testMember("u3", Role{ID: "r-high", GuildID: "g1", Position: 7})

	unrestricted := Emote{ID: "e-free", Name: "free"}
	restricted := Emote{ID: "e-sub", Name: "subonly", Roles: []Role{restricting}}

	ok, err := engine.CanInteractWithEmote(ctx, guild, member, unrestricted)
	if err != nil || !ok {
		t.Fatalf("unrestricted emote should be usable, ok=%v err=%v", ok, err)
	}

	ok, err = engine.CanInteractWithEmote(ctx, guild, member, restricted)
	if err != nil || ok {
		t.Fatalf("non-holder below rank must be denied, ok=%v err=%v", ok, err)
	}

	ok, err = engine.CanInteractWithEmote(ctx, guild, holder, restricted)
	if err != nil || !ok {
		t.Fatalf("holding a restricting role should grant, ok=%v err=%v", ok, err)
	}

	ok, err = engine.CanInteractWithEmote(ctx, guild, above, restricted)
	if err != nil || !ok {
		t.Fatalf("outranking the restriction should grant, ok=%v err=%v", ok, err)
	}

	ok, err = engine.CanInteractWithEmote(ctx, guild, testMember("owner"), restricted)
	if err != nil || !ok {
		t.Fatalf("owner should use any emote, ok=%v err=%v", ok, err)
	}
}

func TestInteractMetricsAndAudit(t *testing.T) {
	sink := NewChannelSink(8)
	engine, err := New().WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	guild := testGuild(t)
	low := testMember("low")
	high := testMember("high", Role{ID: "r", GuildID: "g1", Position: 2})

	if _, err := engine.CanInteract(context.Background(), guild, low, high); err != nil {
		t.Fatalf("CanInteract failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricInteractDenied] != 1 {
		t.Fatalf("MetricInteractDenied = %d", snap.Counters[MetricInteractDenied])
	}

	event := <-sink.Events()
	if event.EventType != AuditInteractDenied {
		t.Fatalf("EventType = %q", event.EventType)
	}
	if event.ActorID != "low" || event.TargetID != "high" {
		t.Fatalf("unexpected actor/target: %q/%q", event.ActorID, event.TargetID)
	}
}
