package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
)

func TestTransicaoValida_CicloDeVida(t *testing.T) {
	// Transições legais.
	assert.True(t, entity.TransicaoValida(entity.JobPending, entity.JobProcessing))
	assert.True(t, entity.TransicaoValida(entity.JobProcessing, entity.JobReadyForReview))
	assert.True(t, entity.TransicaoValida(entity.JobReadyForReview, entity.JobCompleted))
	assert.True(t, entity.TransicaoValida(entity.JobReadyForReview, entity.JobRejected))

	// Unidirecional: não há volta nem reabertura.
	assert.False(t, entity.TransicaoValida(entity.JobReadyForReview, entity.JobPending))
	assert.False(t, entity.TransicaoValida(entity.JobCompleted, entity.JobReadyForReview))
	assert.False(t, entity.TransicaoValida(entity.JobRejected, entity.JobReadyForReview))
	assert.False(t, entity.TransicaoValida(entity.JobCompleted, entity.JobRejected))
}

func TestJobStatus_Terminal(t *testing.T) {
	assert.True(t, entity.JobCompleted.Terminal())
	assert.True(t, entity.JobRejected.Terminal())
	assert.True(t, entity.JobFailed.Terminal())
	assert.False(t, entity.JobReadyForReview.Terminal())
}

func TestRowStatus_Comitavel(t *testing.T) {
	assert.True(t, entity.RowValid.Comitavel())
	assert.True(t, entity.RowWarning.Comitavel())
	assert.False(t, entity.RowError.Comitavel(), "linhas com erro nunca entram no commit")
}
