package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortPairIsOrderIndependent(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	lo1, hi1 := SortPair(a, b)
	lo2, hi2 := SortPair(b, a)

	assert.Equal(t, lo1, lo2)
	assert.Equal(t, hi1, hi2)
	assert.Equal(t, a, lo1)
	assert.Equal(t, b, hi1)
}

func TestSortPairEqualInputs(t *testing.T) {
	a := uuid.New()
	lo, hi := SortPair(a, a)
	assert.Equal(t, a, lo)
	assert.Equal(t, a, hi)
}

func TestChatPeerOf(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	chat := Chat{ID: uuid.New(), UserA: userA, UserB: userB}

	peer, ok := chat.PeerOf(userA)
	require.True(t, ok)
	assert.Equal(t, userB, peer)

	peer, ok = chat.PeerOf(userB)
	require.True(t, ok)
	assert.Equal(t, userA, peer)

	_, ok = chat.PeerOf(uuid.New())
	assert.False(t, ok, "a stranger has no peer in this chat")
}

func TestMessageKindValid(t *testing.T) {
	assert.True(t, KindText.Valid())
	assert.True(t, KindImage.Valid())
	assert.True(t, KindFile.Valid())
	assert.False(t, MessageKind("").Valid())
	assert.False(t, MessageKind("video").Valid())
}
