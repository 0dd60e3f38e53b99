package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyonecancode/acc/internal/domain"
)

func TestConversationBounded(t *testing.T) {
	sink := &recordingSink{}
	conv := NewConversation(sink, 3)
	for _, text := range []string{"a", "b", "c", "d"} {
		conv.Append(domain.RoleUser, text)
	}

	assert.Equal(t, 3, conv.Len())
	all := conv.Window(0)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].Content)
	assert.Len(t, sink.of(domain.EventAddMessage), 4)

	last := conv.Window(2)
	assert.Equal(t, []string{"c", "d"}, []string{last[0].Content, last[1].Content})

	last[0].Content = "mutated"
	assert.Equal(t, "c", conv.Window(2)[0].Content)
}

func TestAppendProposalAttachesProposal(t *testing.T) {
	sink := &recordingSink{}
	conv := NewConversation(sink, 0)
	msg := conv.AppendProposal("reply", domain.CommandProposal{ID: "p1", Command: "ls"})

	assert.Equal(t, domain.RoleAssistant, msg.Role)
	events := sink.of(domain.EventAddMessage)
	require.Len(t, events, 1)
	assert.Equal(t, "p1", events[0].ProposalID)
	require.NotNil(t, events[0].Proposal)
	assert.Equal(t, "ls", events[0].Proposal.Command)
}
