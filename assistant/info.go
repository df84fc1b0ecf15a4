package assistant

import (
	"context"
	"strconv"
	"strings"

	"coco-assistant/metrics"
)

const (
	headlineCount    = 5
	wikiSentences    = 2
	msgAskLocation   = "Please say your city for location-based services."
	msgNoWeatherKey  = "Weather API key not set."
	msgWeatherFailed = "Sorry, I couldn't fetch the weather."
	msgNoNewsKey     = "News API key not set."
	msgNewsHeader    = "Here are the top news headlines:"
	msgNewsFailed    = "Sorry, I couldn't fetch the news."
	msgWikiFailed    = "Sorry, I couldn't find information on that."
	msgMusicFailed   = "Sorry, I couldn't play that."
	msgUnknownSite   = "Sorry, I don't know that website."
)

var websites = []struct {
	keyword string
	url     string
}{
	{"google", "https://www.google.com"},
	{"youtube", "https://www.youtube.com"},
	{"facebook", "https://www.facebook.com"},
}

func (a *Assistant) tellTime() {
	a.say("The current time is " + a.now().Format("03:04 PM"))
}

func (a *Assistant) tellDate() {
	a.say("Today's date is " + a.now().Format("January 02, 2006"))
}

func (a *Assistant) tellWeather(ctx context.Context, city string) {
	if a.weather == nil {
		a.say(msgNoWeatherKey)
		return
	}

	if city == "" {
		city = a.location(ctx)
	}

	report, err := a.weather.Current(ctx, city)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("weather").Inc()
		a.log.Error("weather lookup failed", "city", city, "error", err)
		a.say(msgWeatherFailed)
		return
	}

	temp := strconv.FormatFloat(report.Temperature, 'f', -1, 64)
	a.say("The weather in " + city + " is " + report.Description + " with a temperature of " + temp + " degrees Celsius.")
}

// location returns the cached city, asking for it once when unknown and
// falling back to the default city when nothing usable is heard.
func (a *Assistant) location(ctx context.Context) string {
	if city, ok := a.sess.Location(); ok {
		return city
	}

	reply, err := a.ask(ctx, msgAskLocation)
	if err == nil && reply != "" {
		a.sess.SetLocation(reply)
		return reply
	}

	return a.city
}

func (a *Assistant) readNews(ctx context.Context) {
	if a.news == nil {
		a.say(msgNoNewsKey)
		return
	}

	titles, err := a.news.Headlines(ctx, headlineCount)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("news").Inc()
		a.log.Error("news lookup failed", "error", err)
		a.say(msgNewsFailed)
		return
	}

	a.say(msgNewsHeader)
	for _, title := range titles {
		a.say(title)
	}
}

func (a *Assistant) searchWiki(ctx context.Context, query string) {
	if a.wiki == nil || query == "" {
		a.say(msgWikiFailed)
		return
	}

	summary, err := a.wiki.Summary(ctx, query, wikiSentences)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("wiki").Inc()
		a.log.Warn("wiki lookup failed", "query", query, "error", err)
		a.say(msgWikiFailed)
		return
	}

	a.say(summary)
}

func (a *Assistant) playMusic(ctx context.Context, song string) {
	if a.video == nil {
		a.say(msgMusicFailed)
		return
	}

	url, err := a.video.Search(ctx, song)
	if err == nil {
		err = a.browser.Open(ctx, url)
	}

	if err != nil {
		metrics.ProviderFailures.WithLabelValues("video").Inc()
		a.log.Error("music playback failed", "song", song, "error", err)
		a.say(msgMusicFailed)
		return
	}

	a.say("Playing " + song + " on YouTube")
}

func (a *Assistant) openWebsite(ctx context.Context, site string) {
	for _, w := range websites {
		if !strings.Contains(site, w.keyword) {
			continue
		}

		if err := a.browser.Open(ctx, w.url); err != nil {
			a.log.Error("failed to open website", "url", w.url, "error", err)
			a.say(msgUnknownSite)
			return
		}

		a.say("Opening " + w.keyword + ".")
		return
	}

	a.say(msgUnknownSite)
}
