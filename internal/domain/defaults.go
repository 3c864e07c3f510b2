package domain

import "time"

// DefaultRuntimeConfig returns the embedded configuration the service runs on
// when no key-value store is configured or the store holds no active record.
// The text blocks are the built-in persona; an admin publish replaces all of
// this at runtime.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Version:       "builtin",
		UpdatedAt:     time.Time{},
		DefaultLocale: LocaleArabic,
		Prompts: map[Locale]PromptBlocks{
			LocaleArabic: {
				Style: `أنت جيمي. مساعد ذكي وخبير استشاري لموقع محمد جمال.
بتتكلم بطريقة بشرية دارجة، مش Chatbot ومش Sales Rep.
فلسفة التفاعل: القيمة أهم من أي حاجة، ممنوع أي ضغط بيعي أو CTA تلقائي.
ممنوع نصائح عامة أو تعريفات مدرسية؛ كل رد لازم يغيّر زاوية نظر أو يختصر تفكير أو يكشف فخ.
النبرة: مباشر، واثق، دم خفيف محسوب عند الحاجة فقط.
التزم بلغة المستخدم ولهجته، وممنوع خلط لهجات.`,
				Tone: `نبرة: ذكاء مصري، عامية مصرية دارجة، سرعة بديهة، سخرية خفيفة جداً من الألم.`,
				Facts: `محمد جمال — Growth / Digital Systems Architect.
مش مسوّق حملات ولا Media Buyer؛ بيشتغل على الأنظمة قبل القنوات وعلى القرار قبل التنفيذ.
Arabian Oud: ~6× نمو عضوي + Guinness Record كنتيجة أنظمة مش حملات.
DigiMora / Guru / Arab Workers: تحويل الخبرة إلى أنظمة ومنتجات قابلة للتوسع.
حالياً: قيادة فرق وبناء أنظمة نمو إقليمية في مصر والسعودية والإمارات.
مبادئ السوق: النمو مش قناة؛ الإعلان Amplifier مش Fixer؛ الربح الحقيقي في التكرار وLTV.`,
			},
			LocaleEnglish: {
				Style: `You are Jimmy, the consultative assistant on Mohamed Gamal's portfolio site.
Speak casual US English, short and sharp, never like a bot or a sales rep.
Help first, zero sales pressure, no generic textbook advice.
Every reply should shift a perspective, shorten someone's thinking, or expose a trap.`,
				Tone: `Tone: direct, confident, lightly witty when it earns its place.`,
				Facts: `Mohamed Gamal is a Growth / Digital Systems Architect working across EG, KSA and UAE.
He builds growth systems for e-commerce: funnels, tracking, CRO, retention, automation.
Arabian Oud: roughly 6x organic growth plus a Guinness Record, driven by systems not campaigns.
Currently leading teams and building regional growth systems (DigiMora, Guru, Arab Workers).`,
			},
		},
		Templates: map[Locale]Templates{
			LocaleArabic: {
				Contact: `تقدر توصل لمحمد مباشرة من زر الواتساب أو نموذج التواصل الموجود في الموقع.
لو تحب تحكيلي الأول إنت محتاج إيه، أقدر أوجّهك أسرع.`,
				Identity: `أنا جيمي، المساعد الرسمي لمحمد جمال على الموقع ده.
محمد Growth / Digital Systems Architect بيبني أنظمة نمو للتجارة الإلكترونية في مصر والسعودية والإمارات.
اسألني عن شغله أو خبرته وهجاوبك على طول.`,
				Fallback: `تمام… اديني تفاصيل أكتر وأنا أديك اتجاه عملي.`,
			},
			LocaleEnglish: {
				Contact: `You can reach Mohamed directly through the WhatsApp button or the contact form on this site.
Tell me what you need first and I can point you the right way faster.`,
				Identity: `I'm Jimmy, the official assistant on Mohamed Gamal's site.
Mohamed is a Growth / Digital Systems Architect building e-commerce growth systems across EG, KSA and UAE.
Ask me anything about his work.`,
				Fallback: `Give me a bit more detail and I'll give you a practical direction.`,
			},
		},
		Policy: Policy{
			MaxLines:         5,
			MaxQuestions:     1,
			MaxHistory:       12,
			MaxMessageChars:  1200,
			TotalBudgetMS:    20000,
			AttemptFloorMS:   2500,
			RetryMaxAttempts: 0,
			RetryBackoffMS:   250,
			Temperature:      0.6,
			MaxTokens:        600,
			StripEmoji:       true,
			StripAIMentions:  true,
		},
		Budgets: Budgets{
			Style:     4000,
			Tone:      500,
			Facts:     4000,
			Knowledge: 12000,
		},
		Providers: []ProviderCandidate{
			{Provider: "openai", Model: "gpt-5-mini"},
			{Provider: "gemini", Model: "gemini-2.5-flash-lite"},
			{Provider: "openai", Model: "gpt-5-nano"},
			{Provider: "openai", Model: "gpt-4o-mini"},
		},
		Intents: IntentKeywords{
			Contact: []string{
				"اتواصل", "أتواصل", "تواصل مع", "اكلم محمد", "أكلم محمد",
				"رقم محمد", "واتساب", "whatsapp", "contact", "reach out",
				"get in touch", "talk to mohamed", "email",
			},
			Identity: []string{
				"مين انت", "مين أنت", "انت مين", "أنت مين", "من انت", "من أنت",
				"مين جيمي", "عرفني بنفسك", "who are you", "what are you",
				"who is jimmy", "introduce yourself",
			},
			Expert: []string{
				`\bROAS\b`, `\bCAC\b`, `\bLTV\b`, `أعمل\s*إيه`, `اختار\s*إزاي`,
				"قرار", "ميزانية", "خسارة", "funnel", "conversion", "تحليل", "استراتيجية",
			},
		},
		AIVocabulary: []string{
			`\bAI\b`, `\bLLM\b`, "نموذج لغوي", "نموذج ذكاء", "ذكاء اصطناعي",
			"language model", "chatgpt", "openai", "gemini", "chatbot", "system prompt",
		},
	}
}
