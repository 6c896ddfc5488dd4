// Package imagefetch resolves museum image URLs from Wikipedia article
// thumbnails in a sequential, retrying batch.
package imagefetch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Item pairs an image file name with the article that illustrates it.
type Item struct {
	File    string
	Article string
}

var defaultItems = []Item{
	{File: "beylerbeyi.jpg", Article: "Beylerbeyi_Palace"},
	{File: "yedikule.jpg", Article: "Yedikule_Fortress"},
	{File: "tekfur.jpg", Article: "Palace_of_the_Porphyrogenitus"},
	{File: "askeri.jpg", Article: "Istanbul_Military_Museum"},
	{File: "tiesm.jpg", Article: "Museum_of_Turkish_and_Islamic_Arts"},
	{File: "sadberk.jpg", Article: "Sadberk_Hanım_Museum"},
	{File: "islambilim.jpg", Article: "Museum_of_the_History_of_Science_and_Technology_in_Islam"},
	{File: "santral.jpg", Article: "SantralIstanbul"},
	{File: "pelit.jpg", Article: "Pelit_Chocolate_Museum"},
	{File: "madame.jpg", Article: "Madame_Tussauds_Istanbul"},
	{File: "sealife.jpg", Article: "Sea_Life_Istanbul"},
	{File: "borusan.jpg", Article: "Borusan_Contemporary"},
	{File: "dogancay.jpg", Article: "Doğançay_Museum"},
	{File: "kucuksu.jpg", Article: "Küçüksu_Palace"},
	{File: "ataturk.jpg", Article: "Atatürk_Museum_(Şişli)"},
	{File: "florence.jpg", Article: "Florence_Nightingale_Museum"},
	{File: "isbank.jpg", Article: "İş_Bank_Museum"},
	{File: "havaalani.jpg", Article: "Rahmi_M._Koç_Museum"},
	{File: "mozaik.jpg", Article: "Great_Palace_Mosaic_Museum"},
	{File: "whirling.jpg", Article: "Galata_Mevlevi_Lodge"},
}

// DefaultItems returns a copy of the built-in list.
func DefaultItems() []Item {
	out := make([]Item, len(defaultItems))
	copy(out, defaultItems)
	return out
}

// ParseList reads "file|article" lines. Blank lines and lines starting with
// '#' are skipped.
func ParseList(r io.Reader) ([]Item, error) {
	var out []Item
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		file, article, ok := strings.Cut(line, "|")
		file, article = strings.TrimSpace(file), strings.TrimSpace(article)
		if !ok || file == "" || article == "" {
			return nil, fmt.Errorf("imagefetch: line %d: want file|article, got %q", n, line)
		}
		out = append(out, Item{File: file, Article: article})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
