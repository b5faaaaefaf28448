package quran

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/aitafsir/internal/entities"
)

const surahListResponse = `{
  "code": 200,
  "status": "OK",
  "data": [
    {"number": 1, "name": "سُورَةُ ٱلْفَاتِحَةِ", "englishName": "Al-Faatiha", "englishNameTranslation": "The Opening", "numberOfAyahs": 7, "revelationType": "Meccan"},
    {"number": 2, "name": "سُورَةُ البَقَرَةِ", "englishName": "Al-Baqara", "englishNameTranslation": "The Cow", "numberOfAyahs": 286, "revelationType": "Medinan"}
  ]
}`

const fatihaSurah = `{"number": 1, "name": "سُورَةُ ٱلْفَاتِحَةِ", "englishName": "Al-Faatiha", "englishNameTranslation": "The Opening", "numberOfAyahs": 7, "revelationType": "Meccan"}`

var ayahResponse = `{
  "code": 200,
  "status": "OK",
  "data": [
    {"text": "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ", "numberInSurah": 1, "surah": ` + fatihaSurah + `,
     "edition": {"identifier": "quran-simple", "language": "ar", "format": "text", "type": "quran"}},
    {"text": "শুরু করছি আল্লাহর নামে যিনি পরম করুণাময়, অতি দয়ালু।", "numberInSurah": 1, "surah": ` + fatihaSurah + `,
     "edition": {"identifier": "bn.bengali", "language": "bn", "format": "text", "type": "translation"}},
    {"text": "In the name of Allah, the Entirely Merciful, the Especially Merciful.", "numberInSurah": 1, "surah": ` + fatihaSurah + `,
     "edition": {"identifier": "en.sahih", "language": "en", "format": "text", "type": "translation"}},
    {"text": "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ", "numberInSurah": 1, "audio": "https://cdn.islamic.network/quran/audio/128/ar.alafasy/1.mp3", "surah": ` + fatihaSurah + `,
     "edition": {"identifier": "ar.alafasy", "language": "ar", "format": "audio", "type": "versebyverse"}}
  ]
}`

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		httpClient: server.Client(),
		baseURL:    server.URL,
	}
}

func TestClient_GetSurahs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/surah", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(surahListResponse))
	}))
	defer server.Close()

	chapters, err := newTestClient(server).GetSurahs(context.Background())
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, entities.Chapter{
		Number:                 1,
		Name:                   "سُورَةُ ٱلْفَاتِحَةِ",
		EnglishName:            "Al-Faatiha",
		EnglishNameTranslation: "The Opening",
		NumberOfAyahs:          7,
		RevelationType:         "Meccan",
	}, chapters[0])
}

func TestClient_GetSurahs_MalformedFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"status":"OK","data":[{"number":1,"name":"","englishName":"Al-Faatiha","numberOfAyahs":7}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).GetSurahs(context.Background())
	assert.ErrorIs(t, err, ErrContentFetchFailed)
}

func TestClient_GetAyah(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(ayahResponse))
	}))
	defer server.Close()

	verse, err := newTestClient(server).GetAyah(context.Background(), 1, 1, "ar.alafasy")
	require.NoError(t, err)

	assert.Equal(t, "/ayah/1:1/editions/quran-simple,bn.bengali,en.sahih,ar.alafasy", gotPath)
	assert.Equal(t, "1:1", verse.ID)
	assert.Equal(t, 1, verse.SurahNumber)
	assert.Equal(t, 1, verse.AyahNumber)
	assert.Equal(t, "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ", verse.ArabicText)
	assert.Contains(t, verse.TextBn, "শুরু করছি")
	assert.Contains(t, verse.TextEn, "In the name of Allah")
	assert.Equal(t, "Al-Faatiha", verse.SurahNameEnglish)
	assert.Equal(t, "سُورَةُ ٱلْفَاتِحَةِ", verse.SurahNameArabic)
	assert.Equal(t, "https://cdn.islamic.network/quran/audio/128/ar.alafasy/1.mp3", verse.AudioURL)
}

func TestClient_GetAyah_DefaultNarrator(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(ayahResponse))
	}))
	defer server.Close()

	_, err := newTestClient(server).GetAyah(context.Background(), 1, 1, "")
	require.NoError(t, err)
	assert.Contains(t, gotPath, ",ar.alafasy")
}

func TestClient_GetAyah_MissingTranslationsUsePlaceholders(t *testing.T) {
	body := `{"code":200,"status":"OK","data":[
	  {"text":"الٓمٓ","numberInSurah":1,"surah":{"number":2,"name":"سُورَةُ البَقَرَةِ","englishName":"Al-Baqara","numberOfAyahs":286},
	   "edition":{"identifier":"quran-simple","language":"ar","format":"text"}}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	verse, err := newTestClient(server).GetAyah(context.Background(), 2, 1, "ar.alafasy")
	require.NoError(t, err)
	assert.Equal(t, entities.TranslationUnavailableBn, verse.TextBn)
	assert.Equal(t, entities.TranslationUnavailableEn, verse.TextEn)
	assert.Empty(t, verse.AudioURL)
}

func TestClient_GetAyah_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server).GetAyah(context.Background(), 1, 99, "")
	assert.ErrorIs(t, err, ErrContentNotFound)
	assert.NotErrorIs(t, err, ErrContentFetchFailed)
}

func TestClient_GetAyah_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server).GetAyah(context.Background(), 1, 1, "")
	assert.ErrorIs(t, err, ErrContentFetchFailed)
}

func TestClient_GetAyah_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	}))
	defer server.Close()

	_, err := newTestClient(server).GetAyah(context.Background(), 1, 1, "")
	assert.ErrorIs(t, err, ErrContentFetchFailed)
}

func TestClient_GetAyah_MissingSurahFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":[{"text":"x","numberInSurah":1,"edition":{"identifier":"quran-simple","language":"ar","format":"text"}}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).GetAyah(context.Background(), 1, 1, "")
	assert.ErrorIs(t, err, ErrContentFetchFailed)
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(server)
	server.Close()

	_, err := client.GetSurahs(context.Background())
	assert.ErrorIs(t, err, ErrContentFetchFailed)
}

func surahEditionsResponse(ayahs int, withEnglish bool) string {
	edition := func(identifier, lang, format string, text func(i int) string, audio bool) string {
		out := `{"number":1,"name":"سُورَةُ ٱلْفَاتِحَةِ","englishName":"Al-Faatiha","englishNameTranslation":"The Opening","numberOfAyahs":` +
			fmt.Sprint(ayahs) + `,"revelationType":"Meccan","edition":{"identifier":"` + identifier + `","language":"` + lang + `","format":"` + format + `"},"ayahs":[`
		for i := 1; i <= ayahs; i++ {
			if i > 1 {
				out += ","
			}
			out += fmt.Sprintf(`{"number":%d,"numberInSurah":%d,"text":%q`, i, i, text(i))
			if audio {
				out += fmt.Sprintf(`,"audio":"https://cdn.example/%s/%d.mp3"`, identifier, i)
			}
			out += "}"
		}
		return out + "]}"
	}

	parts := []string{
		edition("quran-simple", "ar", "text", func(i int) string { return fmt.Sprintf("آية %d", i) }, false),
		edition("bn.bengali", "bn", "text", func(i int) string { return fmt.Sprintf("আয়াত %d", i) }, false),
	}
	if withEnglish {
		parts = append(parts, edition("en.sahih", "en", "text", func(i int) string { return fmt.Sprintf("Verse %d", i) }, false))
	}
	parts = append(parts, edition("ar.alafasy", "ar", "audio", func(i int) string { return fmt.Sprintf("آية %d", i) }, true))

	body := `{"code":200,"status":"OK","data":[`
	for i, p := range parts {
		if i > 0 {
			body += ","
		}
		body += p
	}
	return body + "]}"
}

func TestClient_GetSurahVerses(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(surahEditionsResponse(7, true)))
	}))
	defer server.Close()

	verses, err := newTestClient(server).GetSurahVerses(context.Background(), 1, "ar.alafasy")
	require.NoError(t, err)

	assert.Equal(t, "/surah/1/editions/quran-simple,bn.bengali,en.sahih,ar.alafasy", gotPath)
	require.Len(t, verses, 7)
	assert.Equal(t, entities.Verse{
		ID:               "1:3",
		SurahNumber:      1,
		AyahNumber:       3,
		ArabicText:       "آية 3",
		TextBn:           "আয়াত 3",
		TextEn:           "Verse 3",
		SurahNameEnglish: "Al-Faatiha",
		SurahNameArabic:  "سُورَةُ ٱلْفَاتِحَةِ",
		AudioURL:         "https://cdn.example/ar.alafasy/3.mp3",
	}, verses[2])
}

func TestClient_GetSurahVerses_MissingTranslationEdition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(surahEditionsResponse(7, false)))
	}))
	defer server.Close()

	verses, err := newTestClient(server).GetSurahVerses(context.Background(), 1, "")
	require.NoError(t, err)
	for _, v := range verses {
		assert.Equal(t, entities.TranslationUnavailableEn, v.TextEn)
	}
}

func TestClient_GetSurahVerses_ShapeMismatchFailsClosed(t *testing.T) {
	cases := map[string]string{
		"wrong surah":    `{"code":200,"data":[{"number":2,"name":"x","englishName":"y","numberOfAyahs":1,"edition":{"identifier":"quran-simple","language":"ar","format":"text"},"ayahs":[{"numberInSurah":1,"text":"t"}]}]}`,
		"missing ayahs":  `{"code":200,"data":[{"number":1,"name":"x","englishName":"y","numberOfAyahs":7,"edition":{"identifier":"quran-simple","language":"ar","format":"text"}}]}`,
		"short chapter":  `{"code":200,"data":[{"number":1,"name":"x","englishName":"y","numberOfAyahs":7,"edition":{"identifier":"quran-simple","language":"ar","format":"text"},"ayahs":[{"numberInSurah":1,"text":"t"}]}]}`,
		"missing names":  `{"code":200,"data":[{"number":1,"numberOfAyahs":1,"edition":{"identifier":"quran-simple","language":"ar","format":"text"},"ayahs":[{"numberInSurah":1,"text":"t"}]}]}`,
		"empty editions": `{"code":200,"data":[]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			_, err := newTestClient(server).GetSurahVerses(context.Background(), 1, "")
			assert.ErrorIs(t, err, ErrContentFetchFailed)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", 0)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)

	client = NewClient("http://localhost:9999/v1/", time.Second)
	assert.Equal(t, "http://localhost:9999/v1", client.baseURL)
}
