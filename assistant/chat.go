package assistant

import (
	"context"
	"strconv"

	"coco-assistant/calc"
	"coco-assistant/clients/ai_bot"
	"coco-assistant/metrics"
	"coco-assistant/session"
	"coco-assistant/units"
)

const (
	msgNoMathKey      = "Math help requires OpenAI key."
	msgNoTranslateKey = "Translation requires OpenAI key."
	msgNoRecipeKey    = "Recipes require OpenAI key."
	msgKidsRecipe     = "In kids mode, recipes are simplified."
	msgCalcFailed     = "Sorry, I couldn't calculate that."
	msgUnknownConvert = "Sorry, I don't know that conversion."
)

// converse forwards an unmatched utterance to the chat provider with the
// whole transcript. Only successful replies are added to the transcript.
func (a *Assistant) converse(ctx context.Context, text string) {
	if a.chat == nil {
		a.say(msgNotUnderstood)
		return
	}

	a.sess.AddTurn(session.RoleUser, text)

	reply, err := a.complete(ctx, chatMaxTokens, true)
	if err != nil {
		a.say(msgChatFailed)
		return
	}

	a.sess.AddTurn(session.RoleAssistant, reply)
	a.say(reply)
}

func (a *Assistant) mathHelp(ctx context.Context, problem string) {
	if a.chat == nil {
		a.say(msgNoMathKey)
		return
	}

	a.sess.AddTurn(session.RoleUser, "Help me with this math problem: "+problem)

	reply, err := a.complete(ctx, mathHelpMaxTokens, false)
	if err != nil {
		a.say(msgChatFailed)
		return
	}

	a.say(reply)
}

func (a *Assistant) translate(ctx context.Context, text string) {
	if a.chat == nil {
		a.say(msgNoTranslateKey)
		return
	}

	a.sess.AddTurn(session.RoleUser, "Translate this: "+text)

	reply, err := a.complete(ctx, chatMaxTokens, true)
	if err != nil {
		a.say(msgChatFailed)
		return
	}

	a.sess.AddTurn(session.RoleAssistant, reply)
	a.say(reply)
}

func (a *Assistant) readRecipe(ctx context.Context, dish string) {
	if a.sess.Restricted() {
		a.say(msgKidsRecipe)
	}

	if a.chat == nil {
		a.say(msgNoRecipeKey)
		return
	}

	a.sess.AddTurn(session.RoleUser, "Give me a short recipe for "+dish)

	reply, err := a.complete(ctx, chatMaxTokens, true)
	if err != nil {
		a.say(msgChatFailed)
		return
	}

	a.sess.AddTurn(session.RoleAssistant, reply)
	a.say(reply)
}

// complete sends the transcript to the chat provider. With kidsPrompt set,
// restricted mode prepends the kids system turn to this request only.
func (a *Assistant) complete(ctx context.Context, maxTokens int, kidsPrompt bool) (string, error) {
	transcript := a.sess.Transcript()

	messages := make([]ai_bot.Message, 0, len(transcript)+1)
	if kidsPrompt && a.sess.Restricted() {
		messages = append(messages, ai_bot.Message{Role: ai_bot.RoleSystem, Content: kidsSystemPrompt})
	}

	for _, turn := range transcript {
		messages = append(messages, ai_bot.Message{Role: string(turn.Role), Content: turn.Text})
	}

	reply, err := a.chat.Complete(ctx, messages, maxTokens)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("chat").Inc()
		a.log.Error("chat completion failed", "error", err)
		return "", err
	}

	return reply, nil
}

func (a *Assistant) calculate(expression string) {
	result, err := calc.Evaluate(expression)
	if err != nil {
		a.log.Debug("calculation failed", "expression", expression, "error", err)
		a.say(msgCalcFailed)
		return
	}

	a.say("The result is " + calc.Format(result))
}

func (a *Assistant) convert(value float64, from, to string) {
	result, err := units.Convert(value, from, to)
	if err != nil {
		a.log.Debug("conversion failed", "from", from, "to", to, "error", err)
		a.say(msgUnknownConvert)
		return
	}

	a.say(strconv.FormatFloat(value, 'f', -1, 64) + " " + from + " is " + strconv.FormatFloat(result, 'f', 2, 64) + " " + to + ".")
}
