package normalize

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Lexicon bundles the static word lists the normalizer runs on: a term
// dictionary for CJK segmentation, stopwords, and sentiment markers.
type Lexicon struct {
	Dictionary []string `yaml:"dictionary"`
	Stopwords  []string `yaml:"stopwords"`
	Positive   []string `yaml:"positive"`
	Negative   []string `yaml:"negative"`
}

// LoadLexicon reads a YAML lexicon file and merges it over the defaults.
// Entries in the file extend the built-in lists; they never remove.
func LoadLexicon(path string) (Lexicon, error) {
	lex := DefaultLexicon()
	b, err := os.ReadFile(path)
	if err != nil {
		return lex, err
	}
	var extra Lexicon
	if err := yaml.Unmarshal(b, &extra); err != nil {
		return lex, err
	}
	lex.Dictionary = append(lex.Dictionary, extra.Dictionary...)
	lex.Stopwords = append(lex.Stopwords, extra.Stopwords...)
	lex.Positive = append(lex.Positive, extra.Positive...)
	lex.Negative = append(lex.Negative, extra.Negative...)
	return lex, nil
}

// DefaultLexicon returns the built-in film-domain lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Dictionary: []string{
			// domain vocabulary
			"电影", "影评", "观影", "影院", "上映", "预告", "票房", "导演", "演员",
			"剧情", "演技", "配乐", "画面", "台词", "结局", "镜头", "彩蛋", "原著",
			"续集", "翻拍", "推荐", "安利", "种草", "好看", "经典", "治愈", "烧脑",
			"催泪", "天花板", "宝藏", "奥斯卡", "恐怖片", "爱情片", "文艺片", "悬疑",
			"科幻", "动画", "纪录片", "喜剧", "动作片",
			// frequently discussed titles
			"阿凡达", "星际穿越", "盗梦空间", "泰坦尼克号", "肖申克的救赎", "阿甘正传",
			"霸王别姬", "千与千寻", "你的名字", "寄生虫", "奥本海默", "沙丘", "芭比",
			"怦然心动", "楚门的世界", "海上钢琴师",
		},
		Stopwords: []string{
			"的", "了", "是", "我", "你", "他", "她", "它", "们", "这", "那",
			"就", "都", "而", "及", "与", "和", "或", "也", "很", "到", "说",
			"要", "去", "会", "着", "在", "有", "人", "不", "啊", "吧", "呢",
			"吗", "把", "被", "让", "给", "从", "对", "还", "又", "再", "才",
			"只", "太", "看", "没", "来", "个", "上", "下", "后", "前", "多",
			"一个", "什么", "怎么", "这个", "那个", "自己", "今天", "现在",
			"大家", "真的", "必须", "姐妹们", "朋友们",
			"the", "a", "an", "and", "or", "of", "to", "in", "is", "it",
			"for", "on", "with", "at", "by", "be", "this", "that", "i", "you",
		},
		Positive: []string{
			"好看", "喜欢", "推荐", "安利", "种草", "治愈", "感动", "神作",
			"绝了", "精彩", "温暖", "开心", "值得", "强推", "惊喜", "震撼",
			"优秀", "好哭", "上头", "爱了", "great", "love", "amazing", "good",
		},
		Negative: []string{
			"难看", "失望", "无聊", "拖沓", "尴尬", "敷衍", "糟糕", "难受",
			"避雷", "踩雷", "烂片", "垃圾", "浪费", "卡顿", "俗套",
			"bad", "boring", "awful", "terrible",
		},
	}
}
