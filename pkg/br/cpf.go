// Package br reúne validações de documentos brasileiros usadas pela importação.
package br

import (
	"fmt"
	"unicode"
)

// Validar verifica se o CPF (com ou sem pontos/hífen) possui dígitos verificadores
// corretos segundo o algoritmo módulo 11 da Receita Federal.
// cpf pode ser "123.456.789-09", "123456789-09" ou "12345678909".
//
// Regras aplicadas, na ordem:
//  1. Após remover não dígitos, o CPF deve ter exatamente 11 dígitos.
//  2. Sequências com todos os dígitos iguais (ex.: 111.111.111-11) são inválidas,
//     mesmo que satisfaçam a aritmética dos verificadores.
//  3. Primeiro verificador: dígitos 1–9 com pesos 10..2; resto < 2 -> 0, senão 11-resto.
//  4. Segundo verificador: dígitos 1–10 com pesos 11..2; mesma regra de resto.
func Validar(cpf string) error {
	digits := extrairDigitos(cpf)
	if len(digits) != 11 {
		return fmt.Errorf("br: CPF deve ter 11 dígitos, foram encontrados %d", len(digits))
	}
	if todosIguais(digits) {
		return fmt.Errorf("br: CPF com todos os dígitos iguais é inválido")
	}
	d1 := digitoVerificador(digits[:9], 10)
	if digits[9] != d1 {
		return fmt.Errorf("br: primeiro dígito verificador inválido: esperado %c, recebido %c", d1, digits[9])
	}
	d2 := digitoVerificador(digits[:10], 11)
	if digits[10] != d2 {
		return fmt.Errorf("br: segundo dígito verificador inválido: esperado %c, recebido %c", d2, digits[10])
	}
	return nil
}

// Valido é a forma booleana de Validar, para uso em expressões.
func Valido(cpf string) bool {
	return Validar(cpf) == nil
}

// Normalizar devolve o CPF apenas com dígitos (forma canônica de armazenamento).
// Não valida; a validação é responsabilidade de Validar.
func Normalizar(cpf string) string {
	return string(extrairDigitos(cpf))
}

// Formatar devolve o CPF no formato de exibição 000.000.000-00.
// Se a entrada não tiver 11 dígitos, devolve a forma normalizada sem máscara.
func Formatar(cpf string) string {
	d := Normalizar(cpf)
	if len(d) != 11 {
		return d
	}
	return fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
}

// digitoVerificador calcula um dígito verificador módulo 11.
// base são os dígitos já validados; pesoInicial é 10 para o primeiro dígito
// (9 dígitos, pesos 10..2) e 11 para o segundo (10 dígitos, pesos 11..2).
func digitoVerificador(base []byte, pesoInicial int) byte {
	var soma int
	for i, d := range base {
		soma += int(d-'0') * (pesoInicial - i)
	}
	resto := soma % 11
	if resto < 2 {
		return '0'
	}
	return byte('0' + (11 - resto))
}

func todosIguais(digits []byte) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}

func extrairDigitos(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
