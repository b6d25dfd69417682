package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	t.Run("секции и элементы разбираются по маркерам", func(t *testing.T) {
		text := "SECTION_HEADER: وظایف فوری\n" +
			"LIST_ITEM:زیاد|تهیه گزارش|2026-09-01|مدیر پروژه\n" +
			"LIST_ITEM:متوسط|بازبینی کد|2026-09-05|توسعه‌دهنده\n" +
			"SECTION_HEADER: وظایف بعدی\n" +
			"LIST_ITEM:کم|مستندسازی|2026-09-20|تیم فنی\n"

		sections := ParseAnalysis(text)
		require.Len(t, sections, 2)

		assert.Equal(t, "وظایف فوری", sections[0].Header)
		require.Len(t, sections[0].Items, 2)
		assert.Equal(t, AnalysisItem{
			Priority: "زیاد",
			Title:    "تهیه گزارش",
			EndDate:  "2026-09-01",
			Roles:    "مدیر پروژه",
		}, sections[0].Items[0])

		assert.Equal(t, "وظایف بعدی", sections[1].Header)
		require.Len(t, sections[1].Items, 1)
	})

	t.Run("текст без маркеров игнорируется", func(t *testing.T) {
		text := "Вот анализ ваших задач:\n\n" +
			"SECTION_HEADER: خلاصه\n" +
			"немного пояснений от модели\n" +
			"LIST_ITEM:زیاد|کار اول|2026-10-01|مدیر\n" +
			"Надеюсь, это поможет!"

		sections := ParseAnalysis(text)
		require.Len(t, sections, 1)
		assert.Equal(t, "خلاصه", sections[0].Header)
		assert.Len(t, sections[0].Items, 1)
	})

	t.Run("элемент до первого заголовка попадает в безымянную секцию", func(t *testing.T) {
		sections := ParseAnalysis("LIST_ITEM:کم|بدون بخش|2026-11-11|نقش")
		require.Len(t, sections, 1)
		assert.Empty(t, sections[0].Header)
		require.Len(t, sections[0].Items, 1)
		assert.Equal(t, "بدون بخش", sections[0].Items[0].Title)
	})

	t.Run("недостающие поля остаются пустыми", func(t *testing.T) {
		sections := ParseAnalysis("SECTION_HEADER: ناقص\nLIST_ITEM:زیاد|فقط عنوان")
		require.Len(t, sections, 1)
		item := sections[0].Items[0]
		assert.Equal(t, "زیاد", item.Priority)
		assert.Equal(t, "فقط عنوان", item.Title)
		assert.Empty(t, item.EndDate)
		assert.Empty(t, item.Roles)
	})

	t.Run("лишние разделители уходят в роли", func(t *testing.T) {
		sections := ParseAnalysis("LIST_ITEM:زیاد|عنوان|2026-12-01|نقش اول|نقش دوم")
		require.Len(t, sections[0].Items, 1)
		assert.Equal(t, "نقش اول|نقش دوم", sections[0].Items[0].Roles)
	})

	t.Run("пустой текст даёт пустой результат", func(t *testing.T) {
		assert.Empty(t, ParseAnalysis(""))
	})
}
