package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeUniverseInvalidDimensions: "A largura e a altura do universo devem ser maiores que zero",
		CodeUniverseDimensionOverflow: "Um universo {{.Width}}x{{.Height}} é grande demais",
		CodeUniverseCorrupt:           "O universo armazenado está corrompido",
		CodeUniverseIDInvalid:         "O ID do universo não é válido",
		CodeCallerMissing:             "A identidade do chamador é obrigatória",
		CodeNoneValue:                 "Nenhum valor foi armazenado ainda",
		CodeStorageOverflow:           "O valor armazenado não pode ser incrementado",
		CodeNotFound:                  "O recurso solicitado não foi encontrado",
		CodeFilterInvalid:             "A expressão de filtro não é válida",
		CodePageTokenInvalid:          "O token de página não é válido",
	},
}
