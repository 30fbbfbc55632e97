package seed

import "github.com/vaidashi/backoffice-api/internal/models"

type adminRow struct {
	id, name, email, password, phone string
	role                             models.Role
	status                           models.UserStatus
	requestMessage, rejectionReason  string
}

var admins = []adminRow{
	{id: "0", name: "admin", email: "admin@sparta.com", password: "sparta1234", phone: "010-0000-0000", role: models.RoleSuperAdmin, status: models.UserStatusActive},
	{id: "1", name: "김운영", email: "operation@sparta.com", password: "password123", phone: "010-1111-1111", role: models.RoleOperationAdmin, status: models.UserStatusActive},
	{id: "2", name: "이고객", email: "cs@sparta.com", password: "password123", phone: "010-2222-2222", role: models.RoleCSAdmin, status: models.UserStatusActive},
	{id: "3", name: "박대기", email: "pending@sparta.com", password: "password123", phone: "010-3333-3333", role: models.RoleCSAdmin, status: models.UserStatusPending, requestMessage: "CS부서 박대기입니다. CS 관리자 승인 부탁드립니다."},
	{id: "4", name: "최거부", email: "rejected@sparta.com", password: "password123", phone: "010-4444-4444", role: models.RoleOperationAdmin, status: models.UserStatusRejected, requestMessage: "운영 관리자로 지원합니다.", rejectionReason: "경력 부족"},
	{id: "5", name: "정정지", email: "suspended@sparta.com", password: "password123", phone: "010-5555-5555", role: models.RoleCSAdmin, status: models.UserStatusSuspended},
	{id: "6", name: "김철수", email: "kim@sparta.com", password: "password123", phone: "010-6666-6666", role: models.RoleOperationAdmin, status: models.UserStatusActive},
	{id: "7", name: "이영희", email: "lee@sparta.com", password: "password123", phone: "010-7777-7777", role: models.RoleCSAdmin, status: models.UserStatusActive},
	{id: "8", name: "박민수", email: "park@sparta.com", password: "password123", phone: "010-8888-8888", role: models.RoleOperationAdmin, status: models.UserStatusActive},
	{id: "9", name: "정수연", email: "jung@sparta.com", password: "password123", phone: "010-9999-9999", role: models.RoleCSAdmin, status: models.UserStatusInactive},
	{id: "10", name: "최동욱", email: "choi@sparta.com", password: "password123", phone: "010-1010-1010", role: models.RoleOperationAdmin, status: models.UserStatusActive},
}

type customerRow struct {
	id, name, email, phone string
	status                 models.CustomerStatus
}

const (
	cActive    = models.CustomerStatusActive
	cInactive  = models.CustomerStatusInactive
	cSuspended = models.CustomerStatusSuspended
)

// NoOrderCustomerID never receives generated orders so it can be deleted
const NoOrderCustomerID = "C041"

var customers = []customerRow{
	{"C001", "최원빈", "wonbin@example.com", "010-1111-2222", cActive},
	{"C002", "이영희", "younghee@example.com", "010-2222-3333", cActive},
	{"C003", "박준영", "junyoung@example.com", "010-3333-4444", cActive},
	{"C004", "최지은", "sujin@example.com", "010-4444-5555", cInactive},
	{"C005", "강준규", "junkyu@example.com", "010-5555-6666", cActive},
	{"C006", "강태우", "taewoo@example.com", "010-6666-7777", cActive},
	{"C007", "윤지원", "jiwon@example.com", "010-7777-8888", cActive},
	{"C008", "송민재", "minjae@example.com", "010-8888-9999", cActive},
	{"C009", "한서연", "seoyeon@example.com", "010-9999-0000", cSuspended},
	{"C010", "VIP 고객", "vip@example.com", "010-0000-1111", cInactive},
	{"C011", "정유미", "yumi@example.com", "010-1234-0001", cActive},
	{"C012", "김도윤", "doyoon@example.com", "010-1234-0002", cActive},
	{"C013", "박서준", "seojoon@example.com", "010-1234-0003", cActive},
	{"C014", "이서아", "seoa@example.com", "010-1234-0004", cActive},
	{"C015", "최은우", "eunwoo@example.com", "010-1234-0005", cActive},
	{"C016", "강하윤", "hayoon@example.com", "010-1234-0006", cActive},
	{"C017", "조민준", "minjoon@example.com", "010-1234-0007", cInactive},
	{"C018", "윤지아", "jia@example.com", "010-1234-0008", cActive},
	{"C019", "임도현", "dohyun@example.com", "010-1234-0009", cActive},
	{"C020", "한지우", "jiwoo@example.com", "010-1234-0010", cActive},
	{"C021", "신서연", "seoyeon2@example.com", "010-1234-0011", cActive},
	{"C022", "권유준", "yujun@example.com", "010-1234-0012", cActive},
	{"C023", "황하은", "haeun@example.com", "010-1234-0013", cSuspended},
	{"C024", "송지호", "jiho@example.com", "010-1234-0014", cActive},
	{"C025", "오수아", "sua@example.com", "010-1234-0015", cActive},
	{"C026", "배서아", "seoa2@example.com", "010-1234-0016", cActive},
	{"C027", "석지민", "jimin@example.com", "010-1234-0017", cActive},
	{"C028", "정시우", "siwoo@example.com", "010-1234-0018", cInactive},
	{"C029", "홍예준", "yejun@example.com", "010-1234-0019", cActive},
	{"C030", "백하준", "hajun@example.com", "010-1234-0020", cActive},
	{"C031", "문채원", "chaewon@example.com", "010-1234-0021", cActive},
	{"C032", "손서윤", "seoyoon@example.com", "010-1234-0022", cActive},
	{"C033", "양지후", "jihoo@example.com", "010-1234-0023", cActive},
	{"C034", "허지호", "jiho2@example.com", "010-1234-0024", cSuspended},
	{"C035", "노은서", "eunseo@example.com", "010-1234-0025", cActive},
	{"C036", "서예준", "yejun2@example.com", "010-1234-0026", cActive},
	{"C037", "유하린", "harin@example.com", "010-1234-0027", cActive},
	{"C038", "채아윤", "ayoon@example.com", "010-1234-0028", cActive},
	{"C039", "진이준", "ijun@example.com", "010-1234-0029", cInactive},
	{"C040", "천수현", "soohyun@example.com", "010-1234-0030", cActive},
	{NoOrderCustomerID, "최삭제", "delete-test@example.com", "010-9999-9999", cActive},
}

type productRow struct {
	id, name string
	category models.Category
	price    string
	stock    int
}

const (
	electronics = models.CategoryElectronics
	fashion     = models.CategoryFashion
	food        = models.CategoryFood
	living      = models.CategoryLiving
	sports      = models.CategorySports
	beauty      = models.CategoryBeauty
	books       = models.CategoryBooks
	toys        = models.CategoryToys
)

var products = []productRow{
	{"P001", "노트북", electronics, "1,500,000원", 15},
	{"P002", "스마트폰", electronics, "950,000원", 32},
	{"P003", "태블릿", electronics, "680,000원", 28},
	{"P004", "무선이어폰", electronics, "89,000원", 45},
	{"P005", "블루투스 스피커", electronics, "125,000원", 23},
	{"P006", "기계식 키보드", electronics, "159,000원", 3},
	{"P007", "게이밍 마우스", electronics, "78,000원", 56},
	{"P008", "27인치 모니터", electronics, "350,000원", 18},
	{"P009", "웹캠", electronics, "95,000원", 0},
	{"P010", "고속충전기", electronics, "35,000원", 89},
	{"P011", "스마트워치", electronics, "450,000원", 25},
	{"P012", "외장하드 1TB", electronics, "89,000원", 0},
	{"P013", "그래픽 카드", electronics, "890,000원", 10},

	{"P014", "기본 티셔츠", fashion, "25,000원", 120},
	{"P015", "청바지", fashion, "79,000원", 45},
	{"P016", "운동화", fashion, "129,000원", 38},
	{"P017", "백팩", fashion, "89,000원", 52},
	{"P018", "볼캡", fashion, "29,000원", 78},
	{"P019", "양말 세트", fashion, "15,000원", 95},
	{"P020", "후드티", fashion, "59,000원", 2},
	{"P021", "맨투맨", fashion, "49,000원", 0},
	{"P022", "슬랙스", fashion, "69,000원", 60},
	{"P023", "가죽 자켓", fashion, "199,000원", 15},
	{"P024", "코트", fashion, "259,000원", 0},
	{"P025", "패딩", fashion, "299,000원", 30},
	{"P026", "목도리", fashion, "39,000원", 50},

	{"P027", "프리미엄 커피 원두", food, "28,000원", 67},
	{"P028", "녹차 티백", food, "12,000원", 85},
	{"P029", "견과류 믹스", food, "18,000원", 43},
	{"P030", "에너지바", food, "15,000원", 92},
	{"P031", "과일잼 세트", food, "22,000원", 34},
	{"P032", "올리브오일", food, "35,000원", 28},
	{"P033", "꿀 선물세트", food, "45,000원", 1},
	{"P034", "다크초콜릿", food, "8,000원", 0},
	{"P035", "프로틴바", food, "25,000원", 100},
	{"P036", "유기농 샐러드", food, "9,900원", 50},
	{"P037", "냉동 닭가슴살", food, "19,900원", 0},
	{"P038", "수제 소시지", food, "15,900원", 40},

	{"P039", "호텔 수건 세트", living, "38,000원", 45},
	{"P040", "베개", living, "45,000원", 32},
	{"P041", "물티슈 대용량", living, "18,000원", 100},
	{"P042", "손세정제 세트", living, "25,000원", 68},
	{"P043", "주방세제 세트", living, "12,000원", 88},
	{"P044", "행주 세트", living, "9,000원", 76},
	{"P045", "방향제", living, "15,000원", 4},
	{"P046", "LED 스탠드", living, "42,000원", 25},
	{"P047", "무선 청소기", living, "299,000원", 15},
	{"P048", "공기청정기", living, "199,000원", 0},
	{"P049", "가습기", living, "79,000원", 30},
	{"P050", "전기포트", living, "49,000원", 50},

	{"P051", "요가매트", sports, "39,000원", 54},
	{"P052", "아령 세트", sports, "65,000원", 22},
	{"P053", "런닝화", sports, "159,000원", 18},
	{"P054", "운동복 세트", sports, "89,000원", 35},
	{"P055", "수영 고글", sports, "32,000원", 0},
	{"P056", "자전거 헬멧", sports, "78,000원", 27},
	{"P057", "탁구채 세트", sports, "55,000원", 2},
	{"P058", "배드민턴 라켓", sports, "95,000원", 31},
	{"P059", "축구공", sports, "29,000원", 60},
	{"P060", "농구공", sports, "32,000원", 0},
	{"P061", "등산 스틱", sports, "89,000원", 25},
	{"P062", "캠핑 의자", sports, "45,000원", 40},

	{"P063", "수분크림", beauty, "45,000원", 48},
	{"P064", "선크림", beauty, "28,000원", 65},
	{"P065", "립스틱 세트", beauty, "52,000원", 37},
	{"P066", "마스카라", beauty, "23,000원", 71},
	{"P067", "클렌징 오일", beauty, "32,000원", 0},
	{"P068", "토너", beauty, "35,000원", 42},
	{"P069", "향수", beauty, "89,000원", 19},
	{"P070", "핸드크림 세트", beauty, "18,000원", 3},
	{"P071", "헤어 에센스", beauty, "25,000원", 60},
	{"P072", "바디 로션", beauty, "19,000원", 80},
	{"P073", "아이섀도우 팔레트", beauty, "48,000원", 0},
	{"P074", "쿠션 파운데이션", beauty, "38,000원", 50},
	{"P075", "네일 폴리시 세트", beauty, "29,000원", 40},

	{"P076", "베스트셀러 소설", books, "16,800원", 58},
	{"P077", "자기계발서", books, "18,900원", 45},
	{"P078", "IT 전문서적", books, "35,000원", 24},
	{"P079", "요리책", books, "25,000원", 38},
	{"P080", "경제경영서", books, "22,000원", 51},
	{"P081", "에세이", books, "14,500원", 67},
	{"P082", "어린이 동화책", books, "12,000원", 0},
	{"P083", "만화책 세트", books, "48,000원", 1},
	{"P084", "역사책", books, "28,000원", 30},
	{"P085", "과학 교양서", books, "21,000원", 40},
	{"P086", "여행 가이드북", books, "19,800원", 25},
	{"P087", "외국어 학습서", books, "24,000원", 50},
	{"P088", "잡지", books, "9,900원", 0},

	{"P089", "레고 세트", toys, "89,000원", 32},
	{"P090", "직소 퍼즐", toys, "25,000원", 46},
	{"P091", "보드게임", toys, "45,000원", 28},
	{"P092", "프라모델", toys, "38,000원", 35},
	{"P093", "인형", toys, "32,000원", 52},
	{"P094", "RC카", toys, "125,000원", 15},
	{"P095", "드론", toys, "280,000원", 2},
	{"P096", "전동킥보드", toys, "450,000원", 8},
	{"P097", "액션 피규어", toys, "59,000원", 0},
	{"P098", "슬라임 세트", toys, "19,000원", 60},
	{"P099", "미니카 트랙", toys, "75,000원", 25},
	{"P100", "인형의 집", toys, "150,000원", 0},
}

var reviewComments = map[int][]string{
	5: {
		"정말 만족스러운 구매였습니다! 품질이 훌륭해요.",
		"배송도 빠르고 상품도 마음에 듭니다.",
		"가성비 최고입니다. 강력 추천해요!",
		"재구매 의사 100%입니다.",
		"선물용으로 샀는데 너무 좋아하네요.",
	},
	4: {
		"전반적으로 좋아요. 배송도 빨랐어요.",
		"가격 대비 괜찮은 제품입니다.",
		"생각보다 퀄리티가 좋네요.",
		"만족합니다. 잘 쓸게요.",
		"포장이 꼼꼼해서 좋았습니다.",
	},
	3: {
		"보통이에요. 그냥 쓸만해요.",
		"가격만큼 하는 것 같아요.",
		"배송은 빨랐는데 상품은 평범해요.",
		"나쁘지 않아요.",
		"화면이랑 색상이 조금 다르네요.",
	},
	2: {
		"기대했던 것보다 별로예요. 포장이 아쉬워요.",
		"마감이 조금 미흡하네요.",
		"배송이 너무 늦었어요.",
		"생각보다 별로네요.",
		"재구매는 안 할 것 같아요.",
	},
	1: {
		"불량품이 왔어요. 환불 원합니다.",
		"최악이에요. 절대 사지 마세요.",
		"배송도 늦고 상품도 별로입니다.",
		"돈 아까워요.",
		"고객센터 연결도 안 되고 답답하네요.",
	},
}
