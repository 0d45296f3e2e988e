package i18n

// entry is one catalog entry. args names the TranslationValues keys that
// feed the positional verbs of the format strings, in order.
type entry struct {
	key  string
	args []string
	pt   string
	en   string
}

var messages = []entry{
	{key: "validation.required", pt: "Campo obrigatório", en: "This field is required"},
	{key: "validation.cpf", pt: "CPF inválido", en: "Invalid CPF"},
	{key: "validation.cnpj", pt: "CNPJ inválido", en: "Invalid CNPJ"},
	{key: "validation.cep", pt: "CEP inválido", en: "Invalid postal code"},
	{key: "validation.email", pt: "E-mail inválido", en: "Invalid email address"},
	{key: "validation.date", pt: "Data inválida", en: "Invalid date"},
	{key: "validation.selection", pt: "Selecione ao menos uma opção", en: "Select at least one option"},
	{key: "validation.in_list", pt: "Opção inválida", en: "Invalid option"},
	{
		key: "validation.digits", args: []string{"digits"},
		pt: "Informe exatamente %[1]d dígitos", en: "Enter exactly %[1]d digits",
	},
	{
		key: "validation.digits_optional", args: []string{"digits"},
		pt: "Deixe em branco ou informe %[1]d dígitos", en: "Leave empty or enter %[1]d digits",
	},
	{
		key: "validation.max_length", args: []string{"max"},
		pt: "Máximo de %[1]d caracteres", en: "Must be at most %[1]d characters",
	},
	{
		key: "validation.password_length", args: []string{"min_length", "max_length"},
		pt: "A senha deve ter entre %[1]d e %[2]d caracteres", en: "Password must be %[1]d to %[2]d characters long",
	},

	{key: "auth.invalid_credentials", pt: "E-mail ou senha incorretos.", en: "Incorrect email or password."},
	{key: "auth.login_failed", pt: "Erro ao tentar logar. Tente novamente.", en: "Could not sign in. Please try again."},
	{key: "auth.unauthorized", pt: "Sessão expirada. Faça login novamente.", en: "Your session has expired. Please sign in again."},
	{key: "auth.weak_password", pt: "A senha deve ter entre 8 e 72 caracteres.", en: "Password must be 8 to 72 characters long."},
	{key: "auth.password_updated", pt: "Senha atualizada com sucesso.", en: "Password updated."},

	{key: "submission.success", pt: "Cadastro realizado com sucesso!", en: "Registration completed!"},
	{key: "submission.invalid", pt: "Verifique os campos destacados.", en: "Please check the highlighted fields."},
	{
		key: "submission.failed",
		pt:  "Erro ao enviar dados. Verifique se o webhook está ativo.",
		en:  "Could not send your data. Check that the webhook is reachable.",
	},

	{key: "error.bad_request", pt: "Requisição inválida.", en: "Invalid request."},
	{key: "error.not_found", pt: "Não encontrado.", en: "Not found."},
	{key: "error.rate_limited", pt: "Muitas tentativas. Aguarde um momento.", en: "Too many attempts. Please wait a moment."},
	{key: "error.unavailable", pt: "Serviço indisponível. Tente novamente mais tarde.", en: "Service unavailable. Please try again later."},
	{key: "error.unauthorized", pt: "Não autorizado.", en: "Unauthorized."},
	{key: "error.internal", pt: "Erro interno. Tente novamente.", en: "Something went wrong. Please try again."},
}
