// Package emoji provides the emoji dataset and the picker overlay used by the
// composer.
package emoji

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultDataURL 是 emoji-mart 数据集的 CDN 地址。
const DefaultDataURL = "https://cdn.jsdelivr.net/npm/@emoji-mart/data"

type Emoji struct {
	ID       string
	Name     string
	Keywords []string
	Native   string
}

func (e Emoji) searchKey() string {
	parts := append([]string{e.ID, e.Name}, e.Keywords...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Dataset is immutable once built.
type Dataset struct {
	emojis []Emoji
	keys   []string
}

func newDataset(emojis []Emoji) *Dataset {
	keys := make([]string, len(emojis))
	for i, e := range emojis {
		keys[i] = e.searchKey()
	}
	return &Dataset{emojis: emojis, keys: keys}
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.emojis)
}

func (d *Dataset) All() []Emoji {
	if d == nil {
		return nil
	}
	return append([]Emoji(nil), d.emojis...)
}

// Search 按 id、名称与关键词模糊匹配，空查询返回全部（按数据集顺序）。
// limit <= 0 表示不限制。
func (d *Dataset) Search(query string, limit int) []Emoji {
	if d == nil {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Emoji
	if q == "" {
		out = d.All()
	} else {
		results := fuzzy.Find(q, d.keys)
		// 分数相同时保持数据集顺序
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score == results[j].Score {
				return results[i].Index < results[j].Index
			}
			return results[i].Score > results[j].Score
		})
		out = make([]Emoji, 0, len(results))
		for _, r := range results {
			out = append(out, d.emojis[r.Index])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type martData struct {
	Categories []struct {
		ID     string   `json:"id"`
		Emojis []string `json:"emojis"`
	} `json:"categories"`
	Emojis map[string]martEmoji `json:"emojis"`
}

type martEmoji struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Skins    []struct {
		Native string `json:"native"`
	} `json:"skins"`
}

// Parse 解析 emoji-mart 格式的数据集。顺序取自 categories，
// 未被任何分类引用的条目按 id 排在最后。
func Parse(raw []byte) (*Dataset, error) {
	var data martData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode emoji data: %w", err)
	}
	if len(data.Emojis) == 0 {
		return nil, fmt.Errorf("emoji data has no emojis")
	}

	seen := make(map[string]bool, len(data.Emojis))
	emojis := make([]Emoji, 0, len(data.Emojis))
	add := func(id string) {
		if seen[id] {
			return
		}
		e, ok := data.Emojis[id]
		if !ok || len(e.Skins) == 0 || e.Skins[0].Native == "" {
			return
		}
		seen[id] = true
		if e.ID == "" {
			e.ID = id
		}
		emojis = append(emojis, Emoji{ID: e.ID, Name: e.Name, Keywords: e.Keywords, Native: e.Skins[0].Native})
	}
	for _, cat := range data.Categories {
		for _, id := range cat.Emojis {
			add(id)
		}
	}
	rest := make([]string, 0)
	for id := range data.Emojis {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		add(id)
	}
	if len(emojis) == 0 {
		return nil, fmt.Errorf("emoji data has no native characters")
	}
	return newDataset(emojis), nil
}

// Fallback 返回内置的小数据集，在远程数据加载完成前使用。
func Fallback() *Dataset {
	return newDataset(append([]Emoji(nil), builtin...))
}

var builtin = []Emoji{
	{ID: "grinning", Name: "Grinning Face", Keywords: []string{"smile", "happy", "joy"}, Native: "😀"},
	{ID: "smiley", Name: "Grinning Face with Big Eyes", Keywords: []string{"happy", "joy", "haha"}, Native: "😃"},
	{ID: "smile", Name: "Grinning Face with Smiling Eyes", Keywords: []string{"happy", "joy", "laugh"}, Native: "😄"},
	{ID: "joy", Name: "Face with Tears of Joy", Keywords: []string{"laugh", "lol", "haha"}, Native: "😂"},
	{ID: "wink", Name: "Winking Face", Keywords: []string{"flirt", "happy"}, Native: "😉"},
	{ID: "blush", Name: "Smiling Face with Smiling Eyes", Keywords: []string{"happy", "shy"}, Native: "😊"},
	{ID: "heart_eyes", Name: "Smiling Face with Heart-Eyes", Keywords: []string{"love", "crush"}, Native: "😍"},
	{ID: "sunglasses", Name: "Smiling Face with Sunglasses", Keywords: []string{"cool", "smile"}, Native: "😎"},
	{ID: "thinking_face", Name: "Thinking Face", Keywords: []string{"hmm", "consider"}, Native: "🤔"},
	{ID: "neutral_face", Name: "Neutral Face", Keywords: []string{"meh", "blank"}, Native: "😐"},
	{ID: "sweat_smile", Name: "Grinning Face with Sweat", Keywords: []string{"relief", "nervous"}, Native: "😅"},
	{ID: "cry", Name: "Crying Face", Keywords: []string{"sad", "tear"}, Native: "😢"},
	{ID: "sob", Name: "Loudly Crying Face", Keywords: []string{"sad", "tears"}, Native: "😭"},
	{ID: "angry", Name: "Angry Face", Keywords: []string{"mad", "annoyed"}, Native: "😠"},
	{ID: "scream", Name: "Face Screaming in Fear", Keywords: []string{"shock", "scared"}, Native: "😱"},
	{ID: "sleeping", Name: "Sleeping Face", Keywords: []string{"tired", "zzz"}, Native: "😴"},
	{ID: "partying_face", Name: "Partying Face", Keywords: []string{"celebrate", "birthday"}, Native: "🥳"},
	{ID: "robot_face", Name: "Robot", Keywords: []string{"bot", "machine"}, Native: "🤖"},
	{ID: "wave", Name: "Waving Hand", Keywords: []string{"hello", "hi", "bye"}, Native: "👋"},
	{ID: "+1", Name: "Thumbs Up", Keywords: []string{"like", "yes", "ok"}, Native: "👍"},
	{ID: "-1", Name: "Thumbs Down", Keywords: []string{"dislike", "no"}, Native: "👎"},
	{ID: "clap", Name: "Clapping Hands", Keywords: []string{"applause", "praise"}, Native: "👏"},
	{ID: "pray", Name: "Folded Hands", Keywords: []string{"please", "thanks"}, Native: "🙏"},
	{ID: "muscle", Name: "Flexed Biceps", Keywords: []string{"strong", "power"}, Native: "💪"},
	{ID: "ok_hand", Name: "OK Hand", Keywords: []string{"perfect", "fine"}, Native: "👌"},
	{ID: "eyes", Name: "Eyes", Keywords: []string{"look", "see"}, Native: "👀"},
	{ID: "heart", Name: "Red Heart", Keywords: []string{"love", "like"}, Native: "❤️"},
	{ID: "fire", Name: "Fire", Keywords: []string{"hot", "lit"}, Native: "🔥"},
	{ID: "sparkles", Name: "Sparkles", Keywords: []string{"shiny", "new"}, Native: "✨"},
	{ID: "star", Name: "Star", Keywords: []string{"favorite"}, Native: "⭐"},
	{ID: "tada", Name: "Party Popper", Keywords: []string{"celebrate", "congrats"}, Native: "🎉"},
	{ID: "rocket", Name: "Rocket", Keywords: []string{"launch", "ship"}, Native: "🚀"},
	{ID: "bulb", Name: "Light Bulb", Keywords: []string{"idea"}, Native: "💡"},
	{ID: "white_check_mark", Name: "Check Mark Button", Keywords: []string{"done", "yes"}, Native: "✅"},
	{ID: "x", Name: "Cross Mark", Keywords: []string{"no", "wrong"}, Native: "❌"},
	{ID: "warning", Name: "Warning", Keywords: []string{"caution", "alert"}, Native: "⚠️"},
	{ID: "question", Name: "Red Question Mark", Keywords: []string{"why", "what"}, Native: "❓"},
	{ID: "coffee", Name: "Hot Beverage", Keywords: []string{"cafe", "morning"}, Native: "☕"},
	{ID: "pizza", Name: "Pizza", Keywords: []string{"food", "slice"}, Native: "🍕"},
	{ID: "sunny", Name: "Sun", Keywords: []string{"weather", "bright"}, Native: "☀️"},
	{ID: "rainbow", Name: "Rainbow", Keywords: []string{"weather", "colors"}, Native: "🌈"},
	{ID: "dog", Name: "Dog Face", Keywords: []string{"pet", "puppy"}, Native: "🐶"},
	{ID: "cat", Name: "Cat Face", Keywords: []string{"pet", "kitten"}, Native: "🐱"},
	{ID: "camera", Name: "Camera", Keywords: []string{"photo", "picture"}, Native: "📷"},
	{ID: "paperclip", Name: "Paperclip", Keywords: []string{"attach", "file"}, Native: "📎"},
	{ID: "speech_balloon", Name: "Speech Balloon", Keywords: []string{"chat", "message"}, Native: "💬"},
}
