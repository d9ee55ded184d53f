package convert

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/felo/chatsnap/internal/mhtml"
)

// The article extractor targets re-published article snapshots (360doc and
// friends) rather than chat exports: it keeps the title and the substantial
// body paragraphs and drops the paywall/share/member chrome around them.
var (
	articleNoiseRe = regexp.MustCompile(`(?i)(微信|支付宝|VIP|恢复|商户|扫码|支付|个人图书馆|收藏|阅读|转藏|来源|展开全文|登录|注册|分享|猜你喜欢|相关推荐|热门|关注|回复|评论|举报|版权|免责声明|360doc)`)
	articleStopRe  = regexp.MustCompile(`(?i)(\|\||客服工作时间)`)
	articleWSRe    = regexp.MustCompile(`\s+`)
)

// minParagraphRunes filters out button labels and captions; genuine body
// paragraphs in these snapshots are long.
const minParagraphRunes = 30

func runArticle(req Request) ([]byte, []string, error) {
	doc, err := mhtml.Parse(req.Input)
	if err != nil {
		return nil, nil, err
	}
	htmlText, err := doc.MainHTML()
	if err != nil {
		return nil, nil, err
	}

	gq, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, nil, err
	}

	title := strings.TrimSpace(gq.Find("title").First().Text())
	if title == "" {
		title = "문서"
	}

	gq.Find("script, style, noscript").Remove()

	var (
		paras    []string
		seen     = map[string]bool{}
		stopped  bool
		warnings []string
	)
	gq.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(articleWSRe.ReplaceAllString(sel.Text(), " "))
		if text == "" {
			return true
		}
		if articleStopRe.MatchString(text) {
			stopped = true
			return false
		}
		if len([]rune(text)) < minParagraphRunes {
			return true
		}
		if articleNoiseRe.MatchString(text) {
			return true
		}
		if seen[text] {
			return true
		}
		seen[text] = true
		paras = append(paras, text)
		return true
	})
	if stopped {
		warnings = append(warnings, "stopped at page footer boilerplate")
	}

	// Thin results fall back to the site's own abstract meta tag.
	if len(paras) < 3 {
		if abstract, ok := gq.Find(`meta[name="360docabstract"]`).Attr("content"); ok {
			if abstract = strings.TrimSpace(abstract); abstract != "" {
				paras = append(paras, abstract)
				warnings = append(warnings, "fewer than 3 paragraphs extracted, appended page abstract")
			}
		}
	}

	var b strings.Builder
	b.WriteString("# " + title + "\n")
	for _, p := range paras {
		b.WriteString("\n" + p + "\n")
	}
	return []byte(b.String()), warnings, nil
}
