package i18n

func init() {
	Register(NewCatalog("pt-BR", map[Code]string{
		CodeUnknown:                 "Algo deu errado. Tente novamente.",
		CodeMalformedRequest:        "Não foi possível ler a requisição.",
		CodeFeedbackStepRequired:    "Selecione um passo antes de registrar o feedback.",
		CodeFeedbackUserRequired:    "A identidade do revisor é necessária para registrar o feedback.",
		CodeFeedbackStatusUnknown:   "O rótulo de status {{.label}} não é reconhecido.",
		CodeFeedbackStatusSentinel:  "O rótulo de status {{.label}} não pode ser registrado como feedback.",
		CodeFeedbackProjectRequired: "Selecione um projeto.",
		CodeStepIndexOutOfRange:     "O passo {{.index}} está fora deste caso.",
		CodeCaseHasNoSteps:          "Este caso não tem passos para percorrer.",
		CodeNotFound:                "O registro solicitado não foi encontrado.",
		CodePersistence:             "Não foi possível salvar o feedback. Tente novamente.",
	}))
}
