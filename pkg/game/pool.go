package game

// distractors are common Portuguese words used as wrong options.
var distractors = []string{
	"felicidade", "tristeza", "alegria", "raiva", "medo", "surpresa", "nojo", "confiança",
	"esperança", "orgulho", "vergonha", "culpa", "inveja", "ciúme", "amor", "ódio",
	"paz", "guerra", "luz", "trevas", "calor", "frio", "vida", "morte",
	"rico", "pobre", "grande", "pequeno", "alto", "baixo", "rápido", "lento",
	"bonito", "feio", "novo", "velho", "fácil", "difícil", "certo", "errado",
	"abrir", "fechar", "começar", "terminar", "ganhar", "perder", "subir", "descer",
	"dia", "noite", "sol", "lua", "água", "fogo", "terra", "ar", "cão", "gato",
	"pássaro", "peixe", "casa", "carro", "comida", "bebida", "trabalho", "lazer", "amigo", "inimigo",
}

// DistractorPool returns a copy of the built-in distractor words.
func DistractorPool() []string {
	return append([]string(nil), distractors...)
}
