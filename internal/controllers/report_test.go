package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-system/internal/dto"
	"project-system/pkg/constants"
)

func TestSummarizeByProject(t *testing.T) {
	t.Run("завершённость элемента с согласованием требует approved", func(t *testing.T) {
		rows := []dto.ReportRowDTO{
			{Project: "Проект А", Status: constants.StatusFinished},
			{Project: "Проект А", Status: constants.StatusFinished, ApprovalStatus: constants.ApprovalApproved},
			{Project: "Проект А", Status: constants.StatusFinished, ApprovalStatus: constants.ApprovalRejected},
			{Project: "Проект А", Status: constants.StatusInProgress},
		}

		summaries := summarizeByProject(rows)
		require.Len(t, summaries, 1)
		assert.Equal(t, 4, summaries[0].Total)
		assert.Equal(t, 2, summaries[0].Finished, "отклонённый элемент не должен считаться завершённым")
		assert.Equal(t, 50, summaries[0].Percent())
	})

	t.Run("элементы вне проектов сворачиваются отдельной строкой", func(t *testing.T) {
		rows := []dto.ReportRowDTO{
			{Project: "Проект А", Status: constants.StatusNotStarted},
			{Project: "", Status: constants.StatusFinished},
			{Project: "", Status: constants.StatusNotStarted},
		}

		summaries := summarizeByProject(rows)
		require.Len(t, summaries, 2)
		assert.Equal(t, "Проект А", summaries[0].Name)
		assert.Equal(t, "Вне проектов", summaries[1].Name)
		assert.Equal(t, 2, summaries[1].Total)
		assert.Equal(t, 1, summaries[1].Finished)
	})

	t.Run("порядок проектов следует первому появлению", func(t *testing.T) {
		rows := []dto.ReportRowDTO{
			{Project: "Б", Status: constants.StatusNotStarted},
			{Project: "А", Status: constants.StatusNotStarted},
			{Project: "Б", Status: constants.StatusNotStarted},
		}

		summaries := summarizeByProject(rows)
		require.Len(t, summaries, 2)
		assert.Equal(t, "Б", summaries[0].Name)
		assert.Equal(t, 2, summaries[0].Total)
		assert.Equal(t, "А", summaries[1].Name)
	})

	t.Run("пустой отчёт даёт пустую сводку", func(t *testing.T) {
		assert.Empty(t, summarizeByProject(nil))
	})
}
