package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountGroupedRejectsUnknownDimension(t *testing.T) {
	repo := &ticketRepository{}

	// The dimension is interpolated into SQL, so it must be whitelisted
	// before any query is built.
	_, err := repo.CountGrouped(context.Background(), TicketScope{}, GroupDimension("email"))
	assert.Error(t, err)

	_, err = repo.CountGrouped(context.Background(), TicketScope{}, GroupDimension("subject; DROP TABLE tickets"))
	assert.Error(t, err)
}
