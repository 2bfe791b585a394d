package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/terraincognita07/venus/internal/models"
)

func newTestDiaryService(entries ...models.DiaryEntry) (*DiaryService, *stubDiaryRepository, *recordingPublisher) {
	repo := &stubDiaryRepository{entries: entries}
	publisher := &recordingPublisher{}
	service := NewDiaryService(repo, publisher)
	service.newID = func() string { return "entry-new" }
	return service, repo, publisher
}

func TestDiaryServiceCreateNormalizesInput(t *testing.T) {
	service, repo, publisher := newTestDiaryService()

	entry, err := service.Create(1, DiaryInput{
		Date:     mustParseDay("2025-03-10"),
		Mood:     " Happy ",
		Symptoms: []string{"Cramps", "cramps", " ", "Headache"},
		Notes:    "<b>Slept</b> well &amp; <script>alert(1)</script>rested",
	})
	if err != nil {
		t.Fatalf("create diary entry: %v", err)
	}
	if entry.Mood != models.MoodHappy {
		t.Fatalf("expected normalized mood, got %q", entry.Mood)
	}
	if strings.Join(entry.Symptoms, ",") != "cramps,headache" {
		t.Fatalf("expected deduplicated symptoms, got %v", entry.Symptoms)
	}
	if entry.Notes != "Slept well & rested" {
		t.Fatalf("expected sanitized notes, got %q", entry.Notes)
	}
	if len(repo.entries) != 1 || len(publisher.events) != 1 {
		t.Fatalf("expected stored entry and one event, got %d/%d", len(repo.entries), len(publisher.events))
	}
	if publisher.events[0].Table != ChangeTableDiary || publisher.events[0].Action != ChangeActionInsert {
		t.Fatalf("unexpected event: %#v", publisher.events[0])
	}
}

func TestDiaryServiceCreateRejectsInvalidInput(t *testing.T) {
	service, _, _ := newTestDiaryService(models.DiaryEntry{ID: "taken", UserID: 1, Date: mustParseDay("2025-03-10"), Mood: models.MoodCalm})

	manySymptoms := make([]string, 0, 21)
	for index := 0; index < 21; index++ {
		manySymptoms = append(manySymptoms, "symptom-"+string(rune('a'+index)))
	}

	cases := []struct {
		name  string
		input DiaryInput
		want  error
	}{
		{name: "missing date", input: DiaryInput{Mood: models.MoodCalm}, want: ErrDiaryDateRequired},
		{name: "unknown mood", input: DiaryInput{Date: mustParseDay("2025-03-11"), Mood: "angry"}, want: ErrDiaryMoodInvalid},
		{name: "date taken", input: DiaryInput{Date: mustParseDay("2025-03-10"), Mood: models.MoodSad}, want: ErrDiaryDateTaken},
		{name: "note too long", input: DiaryInput{Date: mustParseDay("2025-03-11"), Mood: models.MoodSad, Notes: strings.Repeat("a", 2001)}, want: ErrDiaryNoteTooLong},
		{name: "too many symptoms", input: DiaryInput{Date: mustParseDay("2025-03-11"), Mood: models.MoodSad, Symptoms: manySymptoms}, want: ErrDiarySymptomsInvalid},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := service.Create(1, testCase.input); !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, err)
			}
		})
	}
}

func TestDiaryServiceDateIsPerUser(t *testing.T) {
	service, _, _ := newTestDiaryService(models.DiaryEntry{ID: "theirs", UserID: 2, Date: mustParseDay("2025-03-10"), Mood: models.MoodCalm})

	if _, err := service.Create(1, DiaryInput{Date: mustParseDay("2025-03-10"), Mood: models.MoodCalm}); err != nil {
		t.Fatalf("expected another user's entry not to block the date, got %v", err)
	}
}

func TestDiaryServiceUpdateKeepsOwnDate(t *testing.T) {
	service, repo, publisher := newTestDiaryService(
		models.DiaryEntry{ID: "a", UserID: 1, Date: mustParseDay("2025-03-10"), Mood: models.MoodCalm},
		models.DiaryEntry{ID: "b", UserID: 1, Date: mustParseDay("2025-03-11"), Mood: models.MoodCalm},
	)

	updated, err := service.Update(1, "a", DiaryInput{Date: mustParseDay("2025-03-10"), Mood: models.MoodEnergetic})
	if err != nil {
		t.Fatalf("update diary entry: %v", err)
	}
	if updated.Mood != models.MoodEnergetic || repo.entries[0].Mood != models.MoodEnergetic {
		t.Fatalf("expected stored mood change, got %#v", repo.entries[0])
	}
	if len(publisher.events) != 1 || publisher.events[0].Action != ChangeActionUpdate {
		t.Fatalf("expected update event, got %#v", publisher.events)
	}

	if _, err := service.Update(1, "a", DiaryInput{Date: mustParseDay("2025-03-11"), Mood: models.MoodCalm}); !errors.Is(err, ErrDiaryDateTaken) {
		t.Fatalf("expected ErrDiaryDateTaken when moving onto another entry, got %v", err)
	}
	if _, err := service.Update(2, "a", DiaryInput{Date: mustParseDay("2025-03-12"), Mood: models.MoodCalm}); !errors.Is(err, ErrDiaryNotFound) {
		t.Fatalf("expected ErrDiaryNotFound for foreign entry, got %v", err)
	}
}

func TestDiaryServiceListRangeIsInclusive(t *testing.T) {
	service, _, _ := newTestDiaryService(
		models.DiaryEntry{ID: "a", UserID: 1, Date: mustParseDay("2025-03-01"), Mood: models.MoodCalm},
		models.DiaryEntry{ID: "b", UserID: 1, Date: mustParseDay("2025-03-05"), Mood: models.MoodSad},
		models.DiaryEntry{ID: "c", UserID: 1, Date: mustParseDay("2025-03-06"), Mood: models.MoodHappy},
	)

	entries, err := service.List(1, mustParseDay("2025-03-01"), mustParseDay("2025-03-05"))
	if err != nil {
		t.Fatalf("list diary entries: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "b" || entries[1].ID != "a" {
		t.Fatalf("expected [b a], got %#v", entries)
	}

	entry, found, err := service.ForDate(1, mustParseDay("2025-03-06"))
	if err != nil || !found || entry.ID != "c" {
		t.Fatalf("expected entry c, got %#v found=%v err=%v", entry, found, err)
	}
	if _, found, _ := service.ForDate(1, mustParseDay("2025-03-07")); found {
		t.Fatal("expected no entry for empty day")
	}
}

func TestDiaryServiceDelete(t *testing.T) {
	service, repo, publisher := newTestDiaryService(models.DiaryEntry{ID: "a", UserID: 1, Date: mustParseDay("2025-03-01"), Mood: models.MoodCalm})

	if err := service.Delete(1, "missing"); !errors.Is(err, ErrDiaryNotFound) {
		t.Fatalf("expected ErrDiaryNotFound, got %v", err)
	}
	if err := service.Delete(1, "a"); err != nil {
		t.Fatalf("delete diary entry: %v", err)
	}
	if len(repo.entries) != 0 || len(publisher.events) != 1 {
		t.Fatalf("expected entry removed with one event, got %d/%d", len(repo.entries), len(publisher.events))
	}
}

func TestSanitizeDiaryNote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{raw: "  plain  ", want: "plain"},
		{raw: `<a href="javascript:alert(1)">link</a>`, want: "link"},
		{raw: "tea &lt;3", want: "tea <3"},
		{raw: "&lt;script&gt;alert(1)&lt;/script&gt; ok <b>x</b>", want: "ok x"},
		{raw: "&amp;lt;b&amp;gt;bold&amp;lt;/b&amp;gt;", want: "bold"},
		{raw: "&lt;img src=x onerror=alert(1)&gt;fine", want: "fine"},
	}
	for _, testCase := range cases {
		if got := SanitizeDiaryNote(testCase.raw); got != testCase.want {
			t.Fatalf("SanitizeDiaryNote(%q) = %q, want %q", testCase.raw, got, testCase.want)
		}
	}

	deep := "&lt;b&gt;x&lt;/b&gt;"
	for pass := 0; pass < maxEntityDecodePasses+1; pass++ {
		deep = strings.ReplaceAll(deep, "&", "&amp;")
	}
	if got := SanitizeDiaryNote(deep); strings.Contains(got, "<b>") {
		t.Fatalf("expected deeply encoded tags to stay inert, got %q", got)
	}
}
