package suggest

import (
	"strconv"
	"strings"
)

// Engine is a search engine results page; the query is appended to URLTemplate.
type Engine struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	URLTemplate string `json:"url"`
}

// CustomEngineID selects the user-supplied engine template.
const CustomEngineID = 21

var builtinEngines = []Engine{
	{0, "Google", "https://www.google.com/search?q="},
	{1, "Bing", "https://www.bing.com/search?q="},
	{2, "Yahoo", "https://search.yahoo.com/search?p="},
	{3, "Baidu", "https://www.baidu.com/s?wd="},
	{4, "Yandex", "https://yandex.com/search/?text="},
	{5, "DuckDuckGo", "https://duckduckgo.com/?q="},
	{6, "Naver", "https://search.naver.com/search.naver?query="},
	{7, "Ask", "https://www.ask.com/web?q="},
	{8, "Ecosia", "https://www.ecosia.org/search?q="},
	{9, "Brave", "https://search.brave.com/search?q="},
	{10, "Qwant", "https://www.qwant.com/?q="},
	{11, "Startpage", "https://www.startpage.com/do/dsearch?query="},
	{12, "SwissCows", "https://swisscows.com/web?query="},
	{13, "Dogpile", "https://www.dogpile.com/serp?q="},
	{14, "Gibiru", "https://gibiru.com/results.html?q="},
	{15, "Mojeek", "https://www.mojeek.com/search?q="},
	{16, "MetaGer", "https://metager.org/meta/meta.ger3?eingabe="},
	{17, "ZapMeta", "https://www.zapmeta.com/search?q="},
	{18, "Search Encrypt", "https://www.searchencrypt.com/search?q="},
	{19, "OneSearch", "https://www.onesearch.com/yhs/search?q="},
	{20, "Ekoru", "https://ekoru.org/search?q="},
}

// Engines holds the immutable built-ins plus the custom template.
type Engines struct {
	custom string
}

// NewEngines returns the engine set with the given custom template.
func NewEngines(customTemplate string) Engines {
	return Engines{custom: strings.TrimSpace(customTemplate)}
}

// Select returns the engine for id. Custom without a template and unknown
// ids fall back to engine 0; ok reports whether id was honored.
func (e Engines) Select(id int) (engine Engine, ok bool) {
	if id == CustomEngineID {
		if e.custom == "" {
			return builtinEngines[0], false
		}
		return Engine{ID: CustomEngineID, Name: "Custom", URLTemplate: e.custom}, true
	}
	if id < 0 || id >= len(builtinEngines) {
		return builtinEngines[0], false
	}
	return builtinEngines[id], true
}

// List returns every selectable engine, Custom last.
func (e Engines) List() []Engine {
	out := make([]Engine, len(builtinEngines), len(builtinEngines)+1)
	copy(out, builtinEngines)
	return append(out, Engine{ID: CustomEngineID, Name: "Custom", URLTemplate: e.custom})
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
