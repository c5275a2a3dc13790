package dialogue

import (
	"hash/fnv"

	"shareholder-qa-sim/pkg/vocabulary"
)

// Fallback banks used whenever the generation capability is absent or
// fails. Selection is deterministic (seeded by the triggering text) so a
// given session replays identically.

var openingBank = map[vocabulary.Theme][]string{
	vocabulary.ThemePerformance: {
		"今期の業績についてご説明いただけますか？",
		"決算資料を拝見しましたが、売上高の変動要因は何でしょうか？",
		"今年度の主要な成果と課題について教えてください。",
	},
	vocabulary.ThemeStrategy: {
		"今後の事業戦略についてお聞かせください。",
		"中期経営計画の進捗状況はいかがでしょうか？",
		"競合他社との差別化ポイントは何でしょうか？",
	},
	vocabulary.ThemeDividend: {
		"株主還元政策についてのお考えをお聞かせください。",
		"配当方針に変更はありますか？",
	},
	vocabulary.ThemeRisk: {
		"事業運営上の主要なリスクをどのように認識されていますか？",
		"リスク要因への対策について教えてください。",
	},
	vocabulary.ThemeGeneric: {
		"今期の業績について、前年度と比較してどのような変化がありましたか？",
		"今後の成長戦略について詳しく教えてください。",
		"株主還元政策についてのお考えをお聞かせください。",
	},
}

var followUpBank = map[vocabulary.Theme][]string{
	vocabulary.ThemePerformance: {
		"具体的な数値や目標があれば教えてください。",
		"その業績は計画対比でどの程度の水準でしょうか？",
	},
	vocabulary.ThemeStrategy: {
		"その戦略の具体的なタイムラインはどのようになっていますか？",
		"他社との比較ではどのような状況でしょうか？",
	},
	vocabulary.ThemeDividend: {
		"それは株主にとってどのような影響がありますか？",
		"配当性向の目安について教えてください。",
	},
	vocabulary.ThemeRisk: {
		"リスク要因についてはどのようにお考えでしょうか？",
		"その対策の実効性はどのように検証されていますか？",
	},
	vocabulary.ThemeGeneric: {
		"その点についてもう少し詳しく教えていただけますか？",
		"今後の見通しはいかがでしょうか？",
		"投資家としてはより詳細な数値目標を知りたいのですが。",
	},
}

var responseTemplates = map[vocabulary.Theme][]string{
	vocabulary.ThemePerformance: {
		"今期の業績につきましては、資料に記載の通りの進捗となっております。",
		"業績の詳細につきまして、開示資料に基づきご説明いたします。",
	},
	vocabulary.ThemeStrategy: {
		"今後の戦略につきましては、開示資料に記載の方針に沿って推進してまいります。",
		"戦略的な取り組みの詳細は、提出資料の通りでございます。",
	},
	vocabulary.ThemeDividend: {
		"配当政策につきましては、開示資料に記載の方針を基本としております。",
		"株主還元については、資料記載の方針に基づき検討を続けてまいります。",
	},
	vocabulary.ThemeRisk: {
		"リスク認識につきましては、開示資料に記載の通りでございます。",
		"ご指摘の課題については、資料記載の対策を進めております。",
	},
	vocabulary.ThemeGeneric: {
		"ご質問いただいた点につきまして、資料の記載に基づきご回答いたします。",
	},
}

// NoGroundingResponse is returned verbatim when the scorer finds nothing
// relevant. Never answer confidently without grounding.
const NoGroundingResponse = "申し訳ございませんが、ご質問いただいた内容について、アップロードされた資料から関連する情報を見つけることができませんでした。後日、担当部署より改めてご回答させていただきます。"

const questionerSystemPrompt = "あなたは上場企業の株主です。株主総会で経営陣に質問をする立場として、建設的で適切な質問をしてください。質問は1つだけ、簡潔に述べてください。"

const responderSystemPrompt = "あなたは上場企業の経営陣です。株主総会で株主からの質問に対して、誠実で建設的な回答をしてください。提供された資料の内容のみに基づいて回答し、事実に基づかない情報は含めないでください。資料に関連する情報がない場合は、その旨を明確に述べてください。"

// pick selects a bank entry deterministically from a seed string.
func pick(seed string, entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(seed))
	return entries[int(h.Sum32())%len(entries)]
}
