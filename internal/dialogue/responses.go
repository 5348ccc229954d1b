// ABOUTME: User-facing response texts for the support bot
// ABOUTME: Plain markup only (bold, bullets, rules); treated as opaque text downstream

package dialogue

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━"

const (
	nothingToCancelResponse = "No hay ningún proceso activo para cancelar. ¿En qué puedo ayudarte?"

	cancelledResponse = "✓ Proceso cancelado. Los datos han sido eliminados. ¿En qué más puedo ayudarte?"

	startFlowResponse = "¡Perfecto! Voy a ayudarte a crear un ticket de soporte.\n\n" +
		"Por favor, indícame tu **nombre completo**:"

	invalidNameResponse = "Por favor, ingresa un nombre válido (al menos 2 caracteres):"

	invalidEmailResponse = "⚠️ El formato del correo electrónico no es válido.\n\n" +
		"Por favor, ingresa un correo electrónico válido (ejemplo: usuario@dominio.com):"

	invalidDescriptionResponse = "Por favor, proporciona una descripción más detallada (al menos 10 caracteres):"

	confirmRepromptResponse = "Por favor, responde **sí** para confirmar o **no** para cancelar:"

	cancelledCreationResponse = "✓ Creación de ticket cancelada. Los datos han sido eliminados.\n\n¿En qué más puedo ayudarte?"

	createFailedResponse = "⚠️ Hubo un error al crear el ticket. Por favor, intenta nuevamente más tarde."

	createUnavailableResponse = "⚠️ Hubo un error al conectar con el servicio de tickets. Por favor, intenta nuevamente más tarde."

	statusUnavailableResponse = "⚠️ Hubo un error al consultar el estado del ticket. Por favor, intenta nuevamente más tarde."

	greetingResponse = "¡Hola! 👋 Soy el bot de soporte.\n\n" +
		"Puedo ayudarte con:\n" +
		"• **Crear un ticket** de soporte\n" +
		"• **Consultar el estado** de un ticket existente\n\n" +
		"¿Qué te gustaría hacer hoy?"

	helpResponse = "📚 **Centro de Ayuda**\n\n" +
		"Estas son las acciones que puedo realizar:\n\n" +
		"1️⃣ **Crear ticket**: Escribe \"quiero crear un ticket\" o \"crear ticket\"\n" +
		"2️⃣ **Ver estado de ticket**: Escribe \"ver estado del ticket TCK-123\"\n" +
		"3️⃣ **Cancelar**: En cualquier momento escribe \"cancelar\" para detener el proceso actual\n\n" +
		"¿En qué puedo ayudarte?"

	unknownResponse = "No entendí tu mensaje. 🤔\n\n" +
		"Puedo ayudarte con:\n" +
		"• **Crear un ticket**: Escribe \"crear ticket\"\n" +
		"• **Ver estado de ticket**: Escribe \"ver estado del ticket TCK-123\"\n" +
		"• **Ayuda**: Escribe \"ayuda\" para más opciones"
)
