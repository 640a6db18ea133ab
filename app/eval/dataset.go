package eval

type TestCase struct {
	Question      string
	ExpectedTopic string
	Type          string
}

// DefaultDataset mixes questions answered by advisory PDFs with questions
// from Kisan Call Centre transcripts.
var DefaultDataset = []TestCase{
	{Question: "What is the recommended fertilizer dose for wheat?", ExpectedTopic: "NPK values", Type: "PDF_Fact"},
	{Question: "What is the market price of Chilli in Guntur?", ExpectedTopic: "Price/Rupees", Type: "KCC_Data"},
	{Question: "How to control yellow rust in wheat?", ExpectedTopic: "Propiconazole", Type: "PDF_Fact"},
	{Question: "Medicine for stem borer in maize?", ExpectedTopic: "Pesticide name", Type: "KCC_Data"},
	{Question: "Tell me about fish pond preparation in Assam.", ExpectedTopic: "Liming/pH", Type: "PDF_Fact"},
}
