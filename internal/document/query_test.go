package document

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour int) time.Time {
	return time.Date(2024, 11, day, hour, 0, 0, 0, time.UTC)
}

func sampleDocs() []Document {
	return []Document{
		{ID: 1, Title: "Протокол испытаний №45", Type: "Протокол", Author: "Иванов А.С.", LastModified: at(10, 14)},
		{ID: 2, Title: "Методика калибровки", Type: "Методика", Author: "Петрова М.В.", LastModified: at(9, 11)},
		{ID: 3, Title: "Отчет", Type: "Отчет", Author: "Сидоров В.П.", LastModified: at(8, 16)},
		{ID: 4, Title: "Техническое задание", Type: "ТЗ", Author: "Иванов А.С.", LastModified: at(7, 9)},
		{ID: 5, Title: "Инструкция", Type: "Инструкция", Author: "Козлова Е.А.", LastModified: at(6, 13)},
	}
}

func ids(docs []Document) []int64 {
	out := make([]int64, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestQuery_SearchIsCaseInsensitiveOnTitleOrAuthor(t *testing.T) {
	q, err := Query{SearchText: "иВАНОВ"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids(q.Apply(sampleDocs(), "")))

	q, err = Query{SearchText: "КАЛИБР"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(q.Apply(sampleDocs(), "")))
}

func TestQuery_TypeFilter(t *testing.T) {
	q, _ := Query{Type: "ТЗ"}.Normalize()
	assert.Equal(t, []int64{4}, ids(q.Apply(sampleDocs(), "")))

	q, _ = Query{Type: AllTypes}.Normalize()
	assert.Len(t, q.Apply(sampleDocs(), ""), 5)

	q, _ = Query{Type: "Отчет", SearchText: "Иванов"}.Normalize()
	assert.Empty(t, q.Apply(sampleDocs(), ""), "no match is an empty result, not an error")
}

func TestQuery_SortKeys(t *testing.T) {
	docs := sampleDocs()

	q, _ := Query{}.Normalize()
	assert.Equal(t, SortByDate, q.Sort)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(q.Apply(docs, "")))

	q, _ = Query{Sort: SortByName}.Normalize()
	got := q.Apply(docs, "")
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Title, got[i].Title)
	}

	q, _ = Query{Sort: SortByAuthor}.Normalize()
	assert.Equal(t, []int64{1, 4, 5, 2, 3}, ids(q.Apply(docs, "")))
}

func TestQuery_SortIsStableForTies(t *testing.T) {
	docs := []Document{
		{ID: 7, Title: "Same", Author: "B", LastModified: at(1, 1)},
		{ID: 3, Title: "Same", Author: "A", LastModified: at(1, 1)},
		{ID: 9, Title: "Same", Author: "A", LastModified: at(1, 1)},
	}
	q, _ := Query{Sort: SortByName}.Normalize()
	assert.Equal(t, []int64{7, 3, 9}, ids(q.Apply(docs, "")))

	q, _ = Query{Sort: SortByAuthor}.Normalize()
	assert.Equal(t, []int64{3, 9, 7}, ids(q.Apply(docs, "")))

	q, _ = Query{Sort: SortByDate}.Normalize()
	assert.Equal(t, []int64{7, 3, 9}, ids(q.Apply(docs, "")))
}

func TestQuery_ScopeMine(t *testing.T) {
	q, _ := Query{Scope: ScopeMine}.Normalize()
	assert.Equal(t, []int64{1, 4}, ids(q.Apply(sampleDocs(), "Иванов А.С.")))
}

func TestQuery_NormalizeRejectsUnknownValues(t *testing.T) {
	_, err := Query{Sort: "size"}.Normalize()
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = Query{Scope: "projects"}.Normalize()
	assert.True(t, IsValidation(err))
}

func TestPaginate(t *testing.T) {
	docs := sampleDocs()
	p := Paginate(docs, 2, 2)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, []int64{3, 4}, ids(p.Items))

	p = Paginate(docs, 9, 2)
	assert.Empty(t, p.Items)

	p = Paginate(docs, 0, 0)
	assert.Len(t, p.Items, 5)
	assert.Equal(t, 1, p.Page)

	p = Paginate(docs, 3, 2)
	assert.Equal(t, []int64{5}, ids(p.Items))
}

func TestPaginate_HugeValues(t *testing.T) {
	docs := sampleDocs()
	require.NotPanics(t, func() {
		p := Paginate(docs, math.MaxInt, 10)
		assert.Empty(t, p.Items)
		assert.Equal(t, 5, p.Total)
		assert.Equal(t, math.MaxInt, p.Page)
	})
	require.NotPanics(t, func() {
		p := Paginate(docs, 1, math.MaxInt)
		assert.Len(t, p.Items, 5)
	})
	require.NotPanics(t, func() {
		p := Paginate(docs, math.MaxInt/2, math.MaxInt/2)
		assert.Empty(t, p.Items)
	})
}
