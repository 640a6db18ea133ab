package storage

// ReferenceDosages is the recommended NPK application (kg/ha) per crop. Order
// matters: lookups return the first crop whose name appears in the query.
var ReferenceDosages = []FertilizerRecord{
	{CropName: "rice", N: 100, P: 60, K: 40},
	{CropName: "wheat", N: 120, P: 60, K: 40},
	{CropName: "maize", N: 150, P: 75, K: 50},
	{CropName: "groundnut", N: 25, P: 25, K: 25},
	{CropName: "cotton", N: 80, P: 40, K: 40},
	{CropName: "sugarcane", N: 200, P: 100, K: 100},
	{CropName: "potato", N: 120, P: 80, K: 100},
	{CropName: "paddy", N: 100, P: 60, K: 40},
	{CropName: "soybean", N: 30, P: 60, K: 30},
	{CropName: "barley", N: 60, P: 40, K: 20},
	{CropName: "sorghum", N: 90, P: 45, K: 45},
	{CropName: "pearl_millet", N: 60, P: 30, K: 20},
	{CropName: "finger_millet", N: 60, P: 30, K: 30},
	{CropName: "oat", N: 80, P: 40, K: 20},
	{CropName: "chickpea", N: 20, P: 40, K: 20},
	{CropName: "pigeon_pea", N: 20, P: 50, K: 20},
	{CropName: "black_gram", N: 20, P: 40, K: 20},
	{CropName: "green_gram", N: 20, P: 40, K: 20},
	{CropName: "lentil", N: 20, P: 40, K: 20},
	{CropName: "pea", N: 20, P: 40, K: 20},
	{CropName: "mustard", N: 80, P: 40, K: 40},
	{CropName: "rapeseed", N: 80, P: 40, K: 40},
	{CropName: "sunflower", N: 60, P: 60, K: 40},
	{CropName: "sesame", N: 40, P: 20, K: 20},
	{CropName: "linseed", N: 40, P: 20, K: 20},
	{CropName: "castor", N: 60, P: 40, K: 40},
	{CropName: "safflower", N: 40, P: 20, K: 20},
	{CropName: "tobacco", N: 80, P: 40, K: 40},
	{CropName: "jute", N: 80, P: 40, K: 40},
	{CropName: "mesta", N: 60, P: 30, K: 30},
	{CropName: "sugarbeet", N: 120, P: 60, K: 100},
	{CropName: "carrot", N: 80, P: 60, K: 100},
	{CropName: "onion", N: 100, P: 50, K: 50},
	{CropName: "garlic", N: 100, P: 50, K: 50},
	{CropName: "tomato", N: 120, P: 60, K: 60},
	{CropName: "brinjal", N: 100, P: 50, K: 50},
	{CropName: "chilli", N: 80, P: 40, K: 40},
	{CropName: "capsicum", N: 80, P: 40, K: 40},
	{CropName: "okra", N: 80, P: 40, K: 40},
	{CropName: "cabbage", N: 120, P: 60, K: 60},
	{CropName: "cauliflower", N: 120, P: 60, K: 60},
	{CropName: "radish", N: 60, P: 40, K: 40},
	{CropName: "turnip", N: 60, P: 40, K: 40},
	{CropName: "spinach", N: 60, P: 40, K: 40},
	{CropName: "fenugreek", N: 40, P: 20, K: 20},
	{CropName: "coriander", N: 40, P: 20, K: 20},
	{CropName: "cumin", N: 40, P: 20, K: 20},
	{CropName: "fennel", N: 40, P: 20, K: 20},
	{CropName: "dill", N: 40, P: 20, K: 20},
	{CropName: "mint", N: 60, P: 40, K: 40},
	{CropName: "basil", N: 40, P: 20, K: 20},
	{CropName: "parsley", N: 40, P: 20, K: 20},
	{CropName: "pumpkin", N: 60, P: 40, K: 40},
	{CropName: "bottle_gourd", N: 60, P: 40, K: 40},
	{CropName: "bitter_gourd", N: 60, P: 40, K: 40},
	{CropName: "ridge_gourd", N: 60, P: 40, K: 40},
	{CropName: "sponge_gourd", N: 60, P: 40, K: 40},
	{CropName: "cucumber", N: 60, P: 40, K: 40},
	{CropName: "watermelon", N: 60, P: 40, K: 40},
	{CropName: "muskmelon", N: 60, P: 40, K: 40},
	{CropName: "papaya", N: 100, P: 60, K: 60},
	{CropName: "banana", N: 200, P: 60, K: 300},
	{CropName: "mango", N: 100, P: 50, K: 100},
	{CropName: "guava", N: 100, P: 50, K: 100},
	{CropName: "sapota", N: 80, P: 40, K: 80},
	{CropName: "pomegranate", N: 80, P: 40, K: 80},
	{CropName: "citrus", N: 100, P: 50, K: 100},
	{CropName: "grapes", N: 120, P: 60, K: 120},
	{CropName: "apple", N: 80, P: 40, K: 80},
	{CropName: "pear", N: 80, P: 40, K: 80},
	{CropName: "peach", N: 80, P: 40, K: 80},
	{CropName: "plum", N: 80, P: 40, K: 80},
	{CropName: "apricot", N: 80, P: 40, K: 80},
	{CropName: "cherry", N: 80, P: 40, K: 80},
	{CropName: "strawberry", N: 80, P: 40, K: 80},
	{CropName: "pineapple", N: 100, P: 50, K: 100},
	{CropName: "jackfruit", N: 80, P: 40, K: 80},
	{CropName: "cashew", N: 80, P: 40, K: 80},
	{CropName: "coconut", N: 100, P: 50, K: 100},
	{CropName: "arecanut", N: 100, P: 50, K: 100},
	{CropName: "coffee", N: 80, P: 40, K: 80},
	{CropName: "tea", N: 80, P: 40, K: 80},
	{CropName: "rubber", N: 80, P: 40, K: 80},
	{CropName: "oil_palm", N: 120, P: 60, K: 120},
	{CropName: "betel_vine", N: 80, P: 40, K: 80},
	{CropName: "turmeric", N: 80, P: 40, K: 80},
	{CropName: "ginger", N: 80, P: 40, K: 80},
	{CropName: "cardamom", N: 80, P: 40, K: 80},
	{CropName: "black_pepper", N: 80, P: 40, K: 80},
	{CropName: "clove", N: 80, P: 40, K: 80},
	{CropName: "nutmeg", N: 80, P: 40, K: 80},
	{CropName: "vanilla", N: 80, P: 40, K: 80},
	{CropName: "areca", N: 80, P: 40, K: 80},
	{CropName: "lemon_grass", N: 80, P: 40, K: 80},
	{CropName: "sweet_potato", N: 80, P: 40, K: 80},
	{CropName: "yam", N: 80, P: 40, K: 80},
	{CropName: "colocasia", N: 80, P: 40, K: 80},
	{CropName: "amaranthus", N: 60, P: 40, K: 40},
	{CropName: "drumstick", N: 60, P: 40, K: 40},
	{CropName: "beetroot", N: 80, P: 40, K: 80},
	{CropName: "lettuce", N: 60, P: 40, K: 40},
	{CropName: "broccoli", N: 80, P: 40, K: 80},
	{CropName: "kale", N: 80, P: 40, K: 80},
	{CropName: "leek", N: 60, P: 40, K: 40},
	{CropName: "celery", N: 60, P: 40, K: 40},
	{CropName: "artichoke", N: 80, P: 40, K: 80},
	{CropName: "asparagus", N: 80, P: 40, K: 80},
}
