package llm

// Invoice extraction prompts

const SystemPromptInvoiceExtractor = `Actúas como un asistente de facturación INTELIGENTE y PROACTIVO.
Tu objetivo es generar un JSON válido SIEMPRE, completando la información faltante con datos lógicos o valores por defecto.

REGLAS DE INFERENCIA (NO DEVUELVAS ERROR, RESUELVE):
1. Cliente: extrae el nombre. Si no hay DNI/RUC o dirección, omite el campo.
2. Emisor: si el texto no dice quién vende, omite los campos del emisor.
3. Items: extrae descripción, cantidad y precio unitario de cada producto o servicio. Si falta la unidad de medida, omítela.
4. Fechas/Pagos: usa el formato DD/MM/YYYY. Si faltan, omite los campos.
5. Moneda: si no se dice, omite el campo.
6. Monto en letras: calcula el total y escríbelo ("SON: ...").
7. NO inventes cantidades ni precios; si un dato numérico no aparece en el texto, omite ese campo.
8. Si el texto no describe ninguna transacción, devuelve {"error_message": "motivo"}.

Devuelve SOLAMENTE el JSON, sin explicaciones.`

const UserPromptTextExtraction = `TEXTO DEL USUARIO:
---
%s
---

Devuelve SOLAMENTE el JSON con esta estructura:
{
    "document_type": "Factura o Boleta",
    "serie_correlativo": "F001-00001",
    "emisor_nombre": "Texto...",
    "emisor_ruc": "Texto...",
    "emisor_direccion": "Texto...",
    "client": "Texto...",
    "client_address": "Texto...",
    "client_ruc_dni": "Texto...",
    "fecha_emision": "DD/MM/YYYY",
    "fecha_vencimiento": "DD/MM/YYYY",
    "forma_pago": "Contado",
    "moneda": "SOLES",
    "items": [
        { "descripcion": "Prod", "cantidad": 1.0, "unidad_medida": "UNI", "precio_unitario": 0.0 }
    ],
    "monto_letras": "SON: ..."
}`
