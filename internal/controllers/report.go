package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/services"
	"project-system/pkg/constants"
	"project-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetWorkItemReport формирует сводный отчёт; ?format=xlsx переключает
// вывод на файл Excel, в этом случае пагинация игнорируется.
func (c *ReportController) GetWorkItemReport(ctx echo.Context) error {
	filter := parseWorkItemFilter(ctx)
	format := strings.ToLower(ctx.QueryParam("format"))

	if format == "xlsx" {
		filter.Limit = 100000 // выгружаем всё для экспорта
		filter.Offset = 0
	}

	c.logger.Debug("запрос отчёта",
		zap.Any("filter", filter),
		zap.String("format", format))

	rows, total, err := c.reportService.GetWorkItemReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, rows)
	}
	return utils.SuccessResponse(ctx, rows, "Отчёт сформирован", http.StatusOK, total)
}

var reportHeaders = []string{
	"ID", "Тип", "Название", "Проект", "Приоритет", "Статус",
	"Согласование", "Ответственный", "Согласующий", "Дата начала", "Срок", "Создан",
}

func reportRowToSlice(row dto.ReportRowDTO) []interface{} {
	return []interface{}{
		row.ID, row.Kind, row.Title, row.Project, row.Priority, row.Status,
		row.ApprovalStatus, row.Responsible, row.Approver, row.StartDate, row.EndDate, row.CreatedAt,
	}
}

var summaryHeaders = []string{"Проект", "Элементов", "Завершено", "Прогресс, %"}

type projectSummary struct {
	Name     string
	Total    int
	Finished int
}

func (s projectSummary) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Finished * 100 / s.Total
}

// summarizeByProject сворачивает строки отчёта по проектам, сохраняя
// порядок первого появления. Элементы вне проектов попадают в отдельную
// строку. Завершённость считается как в карточке проекта: элемент с
// согласованием закрыт только после решения "approved".
func summarizeByProject(rows []dto.ReportRowDTO) []projectSummary {
	index := make(map[string]int)
	summaries := make([]projectSummary, 0)
	for _, row := range rows {
		name := row.Project
		if name == "" {
			name = "Вне проектов"
		}
		i, ok := index[name]
		if !ok {
			i = len(summaries)
			index[name] = i
			summaries = append(summaries, projectSummary{Name: name})
		}
		summaries[i].Total++
		if row.Status != constants.StatusFinished {
			continue
		}
		if row.ApprovalStatus != "" && row.ApprovalStatus != constants.ApprovalApproved {
			continue
		}
		summaries[i].Finished++
	}
	return summaries
}

func (c *ReportController) addProjectSummarySheet(f *excelize.File, headerStyle int, rows []dto.ReportRowDTO) {
	sheet := "Сводка по проектам"
	f.NewSheet(sheet)
	f.SetSheetRow(sheet, "A1", &summaryHeaders)
	f.SetCellStyle(sheet, "A1", "D1", headerStyle)

	for i, s := range summarizeByProject(rows) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{s.Name, s.Total, s.Finished, s.Percent()}
		f.SetSheetRow(sheet, cell, &values)
	}
	f.SetColWidth(sheet, "A", "A", 40)
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, rows []dto.ReportRowDTO) error {
	f := excelize.NewFile()
	sheet := "Отчёт по элементам"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "L1", style)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := reportRowToSlice(row)
		f.SetSheetRow(sheet, cell, &values)
	}
	f.SetColWidth(sheet, "C", "D", 40)
	f.SetColWidth(sheet, "E", "I", 20)
	f.SetColWidth(sheet, "J", "L", 22)

	c.addProjectSummarySheet(f, style, rows)

	fileName := fmt.Sprintf("work_items_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
