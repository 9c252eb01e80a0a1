// Package prompt renders the persona prompts of the chat agent and the fixed
// logic-chain template used by the fbfs generator.
package prompt

import (
	"strings"
	"text/template"

	apperrors "ihint/internal/errors"
)

// Placeholders left in the persona suffix for the agent to fill per turn.
const (
	InputPlaceholder      = "{input}"
	ScratchpadPlaceholder = "{agent_scratchpad}"
)

const personaPrefix = "Answer the following questions as best you can, but speaking as {{.Persona}} might speak." +
	"You have access to the some tools by calling the functions, if you think you have to call some " +
	"function, just call, don't ask for confirm."

const personaSuffix = "Begin! Remember to speak as {{.Persona}} when giving your final answer. Use lots of \"Args\"\n" +
	"\n" +
	"Question: " + InputPlaceholder + "\n" +
	ScratchpadPlaceholder

const logicChain = "\n" +
	"```example-logic-chain\n" +
	"鱼越大，鱼刺越多，鱼刺越多，鱼肉越少，鱼肉越少，鱼越小，所以鱼越大，鱼越小。\n" +
	"```\n" +
	"\n" +
	"```example-logic-chain\n" +
	"奶酪越多，奶酪孔越多，奶酪孔越多，奶酪越少，所以奶酪越多，奶酪越少。\n" +
	"```\n" +
	"\n" +
	"用类似以上逻辑链的格式和逻辑表达“{{.FishBigger}}，{{.FishSmaller}}”。\n" +
	"\n" +
	"每一步推理都**必须**合理。\n" +
	"每一步推理都**必须**与上一步紧密相关且看似理所当然。\n" +
	"如果你无法合理推出结论，就**必须**尝试推理更多步，**禁止**出现与上一步无关或不合理的推理。\n" +
	"Let's work this out in a step-by-step way to make sure we have the right answer.\n" +
	"**必须**以\"{{.FishBigger}}，\"开头并以\"所以{{.FishBigger}}，{{.FishSmaller}}\"结尾。\n" +
	"你**必须仅**提供逻辑链，**禁止**附加任何其他内容。\n" +
	"每一步推理之间**必须**用逗号分割且**禁止**换行。\n"

var (
	prefixTemplate     = template.Must(template.New("persona_prefix").Parse(personaPrefix))
	suffixTemplate     = template.Must(template.New("persona_suffix").Parse(personaSuffix))
	logicChainTemplate = template.Must(template.New("logic_chain").Parse(logicChain))
)

// BuildPersonaPrompt renders the system prefix and the suffix message for a
// persona. The suffix still holds InputPlaceholder and ScratchpadPlaceholder.
func BuildPersonaPrompt(persona string) (prefix, suffix string, err error) {
	data := struct{ Persona string }{persona}

	prefix, err = render(prefixTemplate, data)
	if err != nil {
		return "", "", err
	}
	suffix, err = render(suffixTemplate, data)
	if err != nil {
		return "", "", err
	}
	return prefix, suffix, nil
}

// FillSuffix substitutes the question and the scratchpad into a suffix
// produced by BuildPersonaPrompt.
func FillSuffix(suffix, input, scratchpad string) string {
	return strings.NewReplacer(
		InputPlaceholder, input,
		ScratchpadPlaceholder, scratchpad,
	).Replace(suffix)
}

// RenderFixedTemplate fills the logic-chain template with the two phrases.
func RenderFixedTemplate(fishBigger, fishSmaller string) (string, error) {
	return render(logicChainTemplate, struct {
		FishBigger  string
		FishSmaller string
	}{fishBigger, fishSmaller})
}

func render(t *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", apperrors.Template(t.Name(), err)
	}
	return buf.String(), nil
}
